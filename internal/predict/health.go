package predict

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"dairyai/internal/common"
)

// Health statuses
const (
	StatusHealthy     = "healthy"
	StatusDegraded    = "degraded"
	StatusUnavailable = "unavailable"
	StatusError       = "error"
)

// HealthChecks are the structured checks behind a family's health status.
type HealthChecks struct {
	ModelFileExists       bool `json:"model_file_exists"`
	ScalerFileExists      bool `json:"scaler_file_exists"`
	ModelLoadSuccess      bool `json:"model_load_success"`
	PredictionTestSuccess bool `json:"prediction_test_success"`
	CacheLoaded           bool `json:"cache_loaded"`
}

// FamilyHealth is the health report for one model family.
type FamilyHealth struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Checks  HealthChecks `json:"checks"`
}

// ModelInfo summarizes the primary model for the health envelope.
type ModelInfo struct {
	Version   string `json:"version"`
	Cached    bool   `json:"cached"`
	Available bool   `json:"available"`
}

// HealthReport is the response of the model-health endpoint. The overall
// status follows the primary (milk yield) family; per-family detail covers
// both families.
type HealthReport struct {
	Status         string                  `json:"status"`
	Message        string                  `json:"message"`
	Timestamp      string                  `json:"timestamp"`
	ResponseTimeMS float64                 `json:"response_time_ms"`
	Checks         HealthChecks            `json:"checks"`
	Families       map[string]FamilyHealth `json:"families"`
	ModelInfo      ModelInfo               `json:"model_info"`
	Error          string                  `json:"error,omitempty"`
}

// Test vectors exercised by the health check, matching the training schemas.
var (
	yieldTestVector    = []float64{2, 7.5, 38.5, 3.8, 3.2, 3.5, 6, 1}
	mastitisTestVector = []float64{25, 7.5, 3.8, 3.2, 2}
)

// CheckModelHealth verifies artifact files, load state and a test inference
// for both model families. Never returns an error: unexpected failures
// produce a report with status "error".
func (s *Service) CheckModelHealth() (report HealthReport) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("model health check panicked")
			report = HealthReport{
				Status:    StatusError,
				Message:   "model health check failed unexpectedly",
				Timestamp: s.now().Format(time.RFC3339),
				Error:     fmt.Sprintf("%v", r),
			}
		}
	}()

	yield := s.checkFamily(common.FamilyYield, yieldTestVector)
	mastitis := s.checkFamily(common.FamilyMastitis, mastitisTestVector)

	var message string
	switch yield.Status {
	case StatusHealthy:
		message = "prediction service is operating normally"
	case StatusDegraded:
		message = "model files exist but loading or test prediction failed"
	default:
		message = "prediction service is unavailable"
	}

	return HealthReport{
		Status:         yield.Status,
		Message:        message,
		Timestamp:      s.now().Format(time.RFC3339),
		ResponseTimeMS: msSince(start),
		Checks:         yield.Checks,
		Families: map[string]FamilyHealth{
			common.FamilyYield:    yield,
			common.FamilyMastitis: mastitis,
		},
		ModelInfo: ModelInfo{
			Version:   yield.Version,
			Cached:    yield.Checks.CacheLoaded,
			Available: yield.Checks.ModelLoadSuccess,
		},
	}
}

func (s *Service) checkFamily(familyName string, testVector []float64) FamilyHealth {
	modelPath, scalerPath, _ := s.registry.ArtifactPaths(familyName)

	checks := HealthChecks{
		ModelFileExists:  fileExists(modelPath),
		ScalerFileExists: fileExists(scalerPath),
	}

	version := ""
	bundle, ok := s.registry.Get(familyName)
	checks.CacheLoaded = s.registry.Attempted(familyName)
	if ok {
		checks.ModelLoadSuccess = true
		version = bundle.Version
		if err := bundle.TestPredict(testVector); err != nil {
			log.Error().Err(err).Str("family", familyName).Msg("model test prediction failed")
		} else {
			checks.PredictionTestSuccess = true
		}
	}

	status := StatusUnavailable
	if checks.ModelFileExists && checks.ScalerFileExists {
		if checks.ModelLoadSuccess && checks.PredictionTestSuccess {
			status = StatusHealthy
		} else {
			status = StatusDegraded
		}
	}

	return FamilyHealth{Status: status, Version: version, Checks: checks}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
