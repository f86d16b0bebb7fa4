package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dairyai/internal/common"
)

// leaf builds a single-node tree that always returns the given leaf value.
func leaf(value []float64) Tree {
	return Tree{
		ChildrenLeft:  []int{-1},
		ChildrenRight: []int{-1},
		Feature:       []int{-1},
		Threshold:     []float64{0},
		Value:         [][]float64{value},
	}
}

// testYieldForest is a small regressor over the 8-feature yield schema.
// The first tree splits on milking frequency so routing is exercised;
// frequency <= 2.5 yields members [25 26 27].
func testYieldForest() *Forest {
	split := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -1, -1},
		Threshold:     []float64{2.5, 0, 0},
		Value:         [][]float64{{0}, {25}, {30}},
	}
	return &Forest{
		Kind:      KindRegressor,
		NFeatures: 8,
		Trees:     []Tree{split, leaf([]float64{26}), leaf([]float64{27})},
	}
}

// testMastitisForest is a two-tree classifier over the 5-feature mastitis
// schema. Both trees split on conductivity at 8.0: low conductivity votes
// class 0, high conductivity votes class 2.
func testMastitisForest() *Forest {
	tree1 := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{1, -1, -1},
		Threshold:     []float64{8.0, 0, 0},
		Value:         [][]float64{{0, 0, 0}, {8, 1, 1}, {1, 2, 7}},
	}
	tree2 := Tree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{1, -1, -1},
		Threshold:     []float64{8.0, 0, 0},
		Value:         [][]float64{{0, 0, 0}, {9, 1, 0}, {0, 2, 8}},
	}
	return &Forest{
		Kind:      KindClassifier,
		NFeatures: 5,
		Classes:   []int{0, 1, 2},
		Trees:     []Tree{tree1, tree2},
	}
}

// identityScaler standardizes to a no-op so tests can reason in raw units.
func identityScaler(n int) *Scaler {
	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	return &Scaler{Mean: mean, Scale: scale}
}

func writeArtifact(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func writeYieldArtifacts(t *testing.T, dir string) {
	t.Helper()
	writeArtifact(t, filepath.Join(dir, common.YieldModelFile), testYieldForest())
	writeArtifact(t, filepath.Join(dir, common.YieldScalerFile), identityScaler(8))
}

func writeMastitisArtifacts(t *testing.T, dir string) {
	t.Helper()
	writeArtifact(t, filepath.Join(dir, common.MastitisModelFile), testMastitisForest())
	writeArtifact(t, filepath.Join(dir, common.MastitisScalerFile), identityScaler(5))
}
