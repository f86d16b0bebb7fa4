package predict

import (
	"time"
)

// SampleReport is the response of the canned test-prediction endpoint.
type SampleReport struct {
	TestStatus         string             `json:"test_status"`
	SampleInput        map[string]float64 `json:"sample_input,omitempty"`
	PredictedMilkYield float64            `json:"predicted_milk_yield,omitempty"`
	Confidence         float64            `json:"confidence,omitempty"`
	ProcessingTimeMS   float64            `json:"processing_time_ms,omitempty"`
	Error              string             `json:"error,omitempty"`
	TestTimestamp      string             `json:"test_timestamp"`
}

// SamplePrediction runs a canned milk-yield request end to end, confirming
// the whole pipeline works against the loaded model.
func (s *Service) SamplePrediction() SampleReport {
	sample := YieldRequest{
		CowID:             "test_cow",
		MilkingFrequency:  2,
		Conductivity:      7.7,
		Temperature:       38.5,
		FatPercentage:     3.8,
		ProteinPercentage: 3.2,
		ConcentrateIntake: 3.5,
		MilkingMonth:      6,
		MilkingDayOfWeek:  1,
	}

	res, err := s.PredictYield(sample)
	if err != nil {
		return SampleReport{
			TestStatus:    "failed",
			Error:         err.Error(),
			TestTimestamp: s.now().Format(time.RFC3339),
		}
	}

	return SampleReport{
		TestStatus:         "success",
		SampleInput:        res.InputFeatures,
		PredictedMilkYield: *res.PredictedMilkYield,
		Confidence:         res.Confidence,
		ProcessingTimeMS:   res.ProcessingTimeMS,
		TestTimestamp:      s.now().Format(time.RFC3339),
	}
}
