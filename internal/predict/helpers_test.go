package predict

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dairyai/internal/common"
	"dairyai/internal/model"
)

// Test artifacts: a 3-tree regressor whose first tree splits on milking
// frequency, and a 2-tree classifier splitting on conductivity at 8.0.
// Scalers are identity transforms so tests reason in raw units.

func testArtifact(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func identityScaler(n int) *model.Scaler {
	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	return &model.Scaler{Mean: mean, Scale: scale}
}

func writeTestArtifacts(t *testing.T, dir string) {
	t.Helper()

	yieldForest := &model.Forest{
		Kind:      model.KindRegressor,
		NFeatures: 8,
		Trees: []model.Tree{
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{0, -1, -1},
				Threshold:     []float64{2.5, 0, 0},
				Value:         [][]float64{{0}, {25}, {30}},
			},
			{ChildrenLeft: []int{-1}, ChildrenRight: []int{-1}, Feature: []int{-1}, Threshold: []float64{0}, Value: [][]float64{{26}}},
			{ChildrenLeft: []int{-1}, ChildrenRight: []int{-1}, Feature: []int{-1}, Threshold: []float64{0}, Value: [][]float64{{27}}},
		},
	}

	mastitisForest := &model.Forest{
		Kind:      model.KindClassifier,
		NFeatures: 5,
		Classes:   []int{0, 1, 2},
		Trees: []model.Tree{
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{1, -1, -1},
				Threshold:     []float64{8.0, 0, 0},
				Value:         [][]float64{{0, 0, 0}, {8, 1, 1}, {1, 2, 7}},
			},
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{1, -1, -1},
				Threshold:     []float64{8.0, 0, 0},
				Value:         [][]float64{{0, 0, 0}, {9, 1, 0}, {0, 2, 8}},
			},
		},
	}

	testArtifact(t, filepath.Join(dir, common.YieldModelFile), yieldForest)
	testArtifact(t, filepath.Join(dir, common.YieldScalerFile), identityScaler(8))
	testArtifact(t, filepath.Join(dir, common.MastitisModelFile), mastitisForest)
	testArtifact(t, filepath.Join(dir, common.MastitisScalerFile), identityScaler(5))
}

// newTestService returns a service backed by the test artifacts.
func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	writeTestArtifacts(t, dir)
	return NewService(model.NewRegistry(dir, nil, nil), nil)
}

// newEmptyService returns a service whose models directory has no artifacts,
// so every model family is unavailable.
func newEmptyService(t *testing.T) *Service {
	t.Helper()
	return NewService(model.NewRegistry(t.TempDir(), nil, nil), nil)
}

func validYieldRequest() YieldRequest {
	return YieldRequest{
		CowID:             "cow-001",
		MilkingFrequency:  2,
		Conductivity:      7.5,
		Temperature:       38.5,
		FatPercentage:     3.8,
		ProteinPercentage: 3.2,
		ConcentrateIntake: 3.5,
		MilkingMonth:      6,
		MilkingDayOfWeek:  1,
	}
}

func validMastitisRequest() MastitisRequest {
	return MastitisRequest{
		CowID:             "cow-002",
		MilkYield:         25,
		Conductivity:      7.5,
		FatPercentage:     3.8,
		ProteinPercentage: 3.2,
		LactationNumber:   2,
	}
}

// fakeMetrics records calls so tests can assert instrumentation.
type fakeMetrics struct {
	predictions map[string]int
	failures    map[string]int
	batches     map[string]int
	items       float64
	latencies   []float64
	confidences []float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		predictions: map[string]int{},
		failures:    map[string]int{},
		batches:     map[string]int{},
	}
}

func (m *fakeMetrics) PredictionsInc(kind string)        { m.predictions[kind]++ }
func (m *fakeMetrics) PredictionFailuresInc(kind string) { m.failures[kind]++ }
func (m *fakeMetrics) PredictionLatencyObserve(v float64) {
	m.latencies = append(m.latencies, v)
}
func (m *fakeMetrics) ConfidenceObserve(v float64) {
	m.confidences = append(m.confidences, v)
}
func (m *fakeMetrics) BatchRequestsInc(kind string) { m.batches[kind]++ }
func (m *fakeMetrics) BatchItemsAdd(n float64)      { m.items += n }
