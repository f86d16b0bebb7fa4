// Package model loads and serves the prediction artifacts: JSON-encoded
// random forests and their companion feature scalers. Artifacts are read once
// per process by the Registry; a load failure marks the model family
// permanently unavailable until restart.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Forest kinds
const (
	KindRegressor  = "regressor"
	KindClassifier = "classifier"
)

// Tree is a single decision tree in flat-array encoding. Internal node i
// compares x[Feature[i]] <= Threshold[i] and descends to ChildrenLeft[i] or
// ChildrenRight[i]; leaves are marked with Feature[i] == -1. Value[i] holds a
// single number for regressor leaves and per-class sample counts for
// classifier leaves.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is an ensemble of decision trees sharing one input schema.
type Forest struct {
	Kind      string `json:"kind"`
	NFeatures int    `json:"n_features"`
	Classes   []int  `json:"classes,omitempty"`
	Trees     []Tree `json:"trees"`
}

// LoadForest reads and validates a forest artifact from disk.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forest artifact: %w", err)
	}

	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode forest artifact: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid forest artifact %s: %w", path, err)
	}

	return &f, nil
}

func (f *Forest) validate() error {
	if f.Kind != KindRegressor && f.Kind != KindClassifier {
		return fmt.Errorf("unknown kind %q", f.Kind)
	}
	if f.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.Kind == KindClassifier && len(f.Classes) == 0 {
		return fmt.Errorf("classifier forest has no classes")
	}

	for ti, t := range f.Trees {
		n := len(t.Feature)
		if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d: inconsistent node arrays", ti)
		}
		if n == 0 {
			return fmt.Errorf("tree %d: empty", ti)
		}

		// Artifacts can arrive over the network; every index evalTree follows
		// is checked here so a malformed tree is rejected at load time instead
		// of panicking at request time. Children must point strictly forward,
		// which also rules out cycles.
		for i := 0; i < n; i++ {
			if t.Feature[i] < 0 {
				continue
			}
			if t.Feature[i] >= f.NFeatures {
				return fmt.Errorf("tree %d: node %d reads feature %d, forest has %d features",
					ti, i, t.Feature[i], f.NFeatures)
			}
			if t.ChildrenLeft[i] <= i || t.ChildrenLeft[i] >= n {
				return fmt.Errorf("tree %d: node %d has invalid left child %d", ti, i, t.ChildrenLeft[i])
			}
			if t.ChildrenRight[i] <= i || t.ChildrenRight[i] >= n {
				return fmt.Errorf("tree %d: node %d has invalid right child %d", ti, i, t.ChildrenRight[i])
			}
		}
	}

	return nil
}

// evalTree walks one tree and returns its leaf value vector.
func (f *Forest) evalTree(t *Tree, x []float64) []float64 {
	node := 0
	for t.Feature[node] >= 0 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// MemberPredictions returns each tree's individual regression prediction.
// The spread across members feeds the ensemble confidence estimate.
func (f *Forest) MemberPredictions(x []float64) ([]float64, error) {
	if err := f.checkInput(x); err != nil {
		return nil, err
	}
	if f.Kind != KindRegressor {
		return nil, fmt.Errorf("member predictions require a regressor, forest is %s", f.Kind)
	}

	out := make([]float64, len(f.Trees))
	for i := range f.Trees {
		v := f.evalTree(&f.Trees[i], x)
		if len(v) == 0 {
			return nil, fmt.Errorf("tree %d: empty leaf value", i)
		}
		out[i] = v[0]
	}
	return out, nil
}

// Predict returns the ensemble regression value: the mean of the per-tree
// predictions.
func (f *Forest) Predict(x []float64) (float64, error) {
	members, err := f.MemberPredictions(x)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, m := range members {
		sum += m
	}
	return sum / float64(len(members)), nil
}

// PredictProba returns per-class probabilities: each tree's leaf class counts
// are normalized to a distribution, then averaged across trees.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if err := f.checkInput(x); err != nil {
		return nil, err
	}
	if f.Kind != KindClassifier {
		return nil, fmt.Errorf("probabilities require a classifier, forest is %s", f.Kind)
	}

	nClasses := len(f.Classes)
	probs := make([]float64, nClasses)
	for i := range f.Trees {
		v := f.evalTree(&f.Trees[i], x)
		if len(v) != nClasses {
			return nil, fmt.Errorf("tree %d: leaf has %d class counts, want %d", i, len(v), nClasses)
		}

		var total float64
		for _, c := range v {
			total += c
		}
		if total <= 0 {
			return nil, fmt.Errorf("tree %d: leaf has no samples", i)
		}
		for c, count := range v {
			probs[c] += count / total
		}
	}

	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs, nil
}

// PredictClass returns the majority-vote class index (argmax of PredictProba).
func (f *Forest) PredictClass(x []float64) (int, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return f.Classes[best], nil
}

func (f *Forest) checkInput(x []float64) error {
	if len(x) != f.NFeatures {
		return fmt.Errorf("expected %d features, got %d", f.NFeatures, len(x))
	}
	for i, v := range x {
		if v != v { // NaN
			return fmt.Errorf("feature %d is NaN", i)
		}
	}
	return nil
}
