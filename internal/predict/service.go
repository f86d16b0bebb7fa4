// Package predict orchestrates the prediction pipeline: model lookup,
// feature vectorization, scaled inference, confidence scoring and response
// shaping. Each call runs the pipeline to a terminal state; the only
// internally modeled recoverable condition is "model unavailable", surfaced
// as ErrModelUnavailable rather than retried.
package predict

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dairyai/internal/common"
	"dairyai/internal/confidence"
	"dairyai/internal/features"
	"dairyai/internal/model"
	"dairyai/internal/scc"
)

// ErrModelUnavailable signals that a required model or scaler is missing or
// failed to load. Callers surface it as service-unavailable, distinct from
// generic internal failures: it means "retry after a model redeploy", not
// "the request was bad".
var ErrModelUnavailable = errors.New("prediction model unavailable")

// ErrInvalidInput signals an input rejected by the orchestrator's own
// defense-in-depth checks (schema validation normally catches these first).
var ErrInvalidInput = errors.New("invalid prediction input")

// MetricsInterface defines metrics methods needed by the prediction service
type MetricsInterface interface {
	PredictionsInc(kind string)
	PredictionFailuresInc(kind string)
	PredictionLatencyObserve(float64)
	ConfidenceObserve(float64)
	BatchRequestsInc(kind string)
	BatchItemsAdd(float64)
}

// Prediction kinds used for metrics labels
const (
	KindYield    = "milk_yield"
	KindMastitis = "mastitis"
	KindSCC      = "mastitis_scc"
)

// mastitisLabels maps a classifier class index to its label. Lookup is total:
// an out-of-range index from the model degrades to "unknown" instead of
// panicking.
var mastitisLabels = []string{"normal", "caution", "inflammation suspected"}

func mastitisLabel(class int) string {
	if class < 0 || class >= len(mastitisLabels) {
		log.Warn().Int("class", class).Msg("model returned unknown class index")
		return "unknown"
	}
	return mastitisLabels[class]
}

// Service is the per-request-kind prediction orchestrator.
type Service struct {
	registry *model.Registry
	metrics  MetricsInterface
	now      func() time.Time
}

// NewService creates a prediction service. Metrics may be nil.
func NewService(registry *model.Registry, metrics MetricsInterface) *Service {
	return &Service{
		registry: registry,
		metrics:  metrics,
		now:      time.Now,
	}
}

// PredictYield predicts milk yield for one cow.
func (s *Service) PredictYield(req YieldRequest) (Result, error) {
	start := time.Now()

	bundle, ok := s.registry.Get(common.FamilyYield)
	if !ok {
		s.recordFailure(KindYield)
		return Result{}, fmt.Errorf("milk yield model: %w", ErrModelUnavailable)
	}

	f := features.YieldFeatures{
		MilkingFrequency:  float64(req.MilkingFrequency),
		Conductivity:      req.Conductivity,
		Temperature:       req.Temperature,
		FatPercentage:     req.FatPercentage,
		ProteinPercentage: req.ProteinPercentage,
		ConcentrateIntake: req.ConcentrateIntake,
		MilkingMonth:      float64(req.MilkingMonth),
		MilkingDayOfWeek:  float64(req.MilkingDayOfWeek),
	}

	scaled, err := bundle.Scaler.Transform(features.YieldVector(f))
	if err != nil {
		s.recordFailure(KindYield)
		return Result{}, fmt.Errorf("scale yield features: %w", err)
	}

	prediction, err := bundle.Forest.Predict(scaled)
	if err != nil {
		s.recordFailure(KindYield)
		return Result{}, fmt.Errorf("yield inference: %w", err)
	}

	conf := s.yieldConfidence(bundle, scaled)
	elapsed := msSince(start)
	yield := round2(prediction)

	res := Result{
		PredictionID:       uuid.New().String(),
		CowID:              req.CowID,
		PredictedMilkYield: &yield,
		Confidence:         conf,
		InputFeatures:      features.YieldEcho(f),
		ModelVersion:       bundle.Version,
		PredictionTime:     s.now().Format(time.RFC3339),
		ProcessingTimeMS:   elapsed,
	}

	s.recordSuccess(KindYield, elapsed, conf)
	log.Info().
		Float64("predicted_milk_yield", yield).
		Float64("confidence", conf).
		Float64("processing_time_ms", elapsed).
		Msg("milk yield prediction complete")

	return res, nil
}

// PredictMastitis classifies mastitis risk from lab features.
func (s *Service) PredictMastitis(req MastitisRequest) (Result, error) {
	start := time.Now()

	bundle, ok := s.registry.Get(common.FamilyMastitis)
	if !ok {
		s.recordFailure(KindMastitis)
		return Result{}, fmt.Errorf("mastitis model: %w", ErrModelUnavailable)
	}

	f := features.MastitisFeatures{
		MilkYield:         req.MilkYield,
		Conductivity:      req.Conductivity,
		FatPercentage:     req.FatPercentage,
		ProteinPercentage: req.ProteinPercentage,
		LactationNumber:   float64(req.LactationNumber),
	}

	scaled, err := bundle.Scaler.Transform(features.MastitisVector(f))
	if err != nil {
		s.recordFailure(KindMastitis)
		return Result{}, fmt.Errorf("scale mastitis features: %w", err)
	}

	class, err := bundle.Forest.PredictClass(scaled)
	if err != nil {
		s.recordFailure(KindMastitis)
		return Result{}, fmt.Errorf("mastitis inference: %w", err)
	}

	conf := s.mastitisConfidence(bundle, scaled)
	elapsed := msSince(start)
	label := mastitisLabel(class)

	res := Result{
		PredictionID:         uuid.New().String(),
		CowID:                req.CowID,
		PredictionClass:      &class,
		PredictionClassLabel: label,
		Confidence:           conf,
		InputFeatures:        features.MastitisEcho(f),
		ModelVersion:         bundle.Version,
		PredictionTime:       s.now().Format(time.RFC3339),
		ProcessingTimeMS:     elapsed,
	}

	s.recordSuccess(KindMastitis, elapsed, conf)
	log.Info().
		Int("prediction_class", class).
		Str("label", label).
		Float64("processing_time_ms", elapsed).
		Msg("mastitis prediction complete")

	return res, nil
}

// PredictMastitisBySCC classifies mastitis severity from somatic cell count
// via the fixed-threshold rule. The model registry is never consulted.
func (s *Service) PredictMastitisBySCC(req SCCRequest) (Result, error) {
	start := time.Now()

	// Schema validation already forbids negative values; re-checked here so
	// the rule is safe even when invoked directly.
	if req.SomaticCellCount < 0 {
		s.recordFailure(KindSCC)
		return Result{}, fmt.Errorf("somatic cell count must be non-negative: %w", ErrInvalidInput)
	}

	severity := scc.Classify(req.SomaticCellCount)
	elapsed := msSince(start)
	class := severity.Class

	res := Result{
		PredictionID:         uuid.New().String(),
		CowID:                req.CowID,
		PredictionMethod:     "somatic_cell_count",
		PredictionClass:      &class,
		PredictionClassLabel: severity.Label,
		Confidence:           scc.RuleConfidence,
		Description:          severity.Description,
		InputFeatures: map[string]float64{
			"somatic_cell_count": req.SomaticCellCount,
		},
		ClassificationCriteria: scc.CriteriaEcho(),
		PredictionTime:         s.now().Format(time.RFC3339),
		ProcessingTimeMS:       elapsed,
	}

	s.recordSuccess(KindSCC, elapsed, scc.RuleConfidence)
	log.Info().
		Float64("somatic_cell_count", req.SomaticCellCount).
		Str("label", severity.Label).
		Msg("scc classification complete")

	return res, nil
}

// yieldConfidence is best-effort: any failure degrades to the default
// placeholder instead of failing the prediction.
func (s *Service) yieldConfidence(bundle *model.Bundle, scaled []float64) float64 {
	members, err := bundle.Forest.MemberPredictions(scaled)
	if err != nil {
		log.Warn().Err(err).Msg("ensemble confidence unavailable, using default")
		return confidence.DefaultConfidence
	}
	return confidence.Regression(members)
}

func (s *Service) mastitisConfidence(bundle *model.Bundle, scaled []float64) float64 {
	probs, err := bundle.Forest.PredictProba(scaled)
	if err != nil {
		log.Warn().Err(err).Msg("probability confidence unavailable, using default")
		return confidence.DefaultConfidence
	}
	return confidence.Classification(probs)
}

func (s *Service) recordSuccess(kind string, latencyMS, conf float64) {
	if s.metrics == nil {
		return
	}
	s.metrics.PredictionsInc(kind)
	s.metrics.PredictionLatencyObserve(latencyMS / 1000.0)
	s.metrics.ConfidenceObserve(conf)
}

func (s *Service) recordFailure(kind string) {
	if s.metrics == nil {
		return
	}
	s.metrics.PredictionFailuresInc(kind)
}

func msSince(start time.Time) float64 {
	return round2(float64(time.Since(start).Microseconds()) / 1000.0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
