package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler is a fitted standardization transform. Mean and Scale must match the
// transform used when the companion forest was trained.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads and validates a scaler artifact from disk.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler artifact: %w", err)
	}

	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scaler artifact: %w", err)
	}

	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("invalid scaler artifact %s: mean/scale length mismatch (%d/%d)",
			path, len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("invalid scaler artifact %s: zero scale at index %d", path, i)
		}
	}

	return &s, nil
}

// Transform standardizes a raw feature vector: (x - mean) / scale.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), len(x))
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
