package api

import (
	"fmt"
	"strings"
	"time"

	"dairyai/internal/predict"
)

// Ranges holds the inclusive numeric bounds a request must satisfy before it
// reaches the orchestrator. Two revisions of the training schema shipped with
// different bounds; both are representable and the active set is chosen by
// configuration (schemaVersion), defaulting to v2.
type Ranges struct {
	Version              string
	MilkingFrequencyMin  int
	MilkingFrequencyMax  int
	TemperatureMin       float64
	TemperatureMax       float64
	FatPercentageMax     float64
	ProteinPercentageMax float64
	LactationNumberMin   int
	LactationNumberMax   int
}

var (
	// RangesV1 reproduces the first schema revision's stricter bounds.
	RangesV1 = Ranges{
		Version:              "v1",
		MilkingFrequencyMin:  1,
		MilkingFrequencyMax:  4,
		TemperatureMin:       0,
		TemperatureMax:       45,
		FatPercentageMax:     12,
		ProteinPercentageMax: 12,
		LactationNumberMin:   1,
		LactationNumberMax:   20,
	}

	// RangesV2 is the current revision, matching the v2.0.0 training schema.
	RangesV2 = Ranges{
		Version:              "v2",
		MilkingFrequencyMin:  1,
		MilkingFrequencyMax:  4,
		TemperatureMin:       -10,
		TemperatureMax:       50,
		FatPercentageMax:     10,
		ProteinPercentageMax: 10,
		LactationNumberMin:   1,
		LactationNumberMax:   20,
	}
)

// RangesForVersion maps a configured schema version to its range set.
func RangesForVersion(version string) Ranges {
	if version == "v1" {
		return RangesV1
	}
	return RangesV2
}

// ValidationError rejects a request before it reaches the orchestrator.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// YieldRequestBody is the wire form of a milk-yield prediction request.
// Required numerics are pointers so absence is distinguishable from zero.
type YieldRequestBody struct {
	CowID             string   `json:"cow_id,omitempty"`
	MilkingFrequency  *int     `json:"milking_frequency"`
	Conductivity      *float64 `json:"conductivity"`
	Temperature       *float64 `json:"temperature"`
	FatPercentage     *float64 `json:"fat_percentage"`
	ProteinPercentage *float64 `json:"protein_percentage"`
	ConcentrateIntake *float64 `json:"concentrate_intake"`
	MilkingMonth      *int     `json:"milking_month"`
	MilkingDayOfWeek  *int     `json:"milking_day_of_week"`
	PredictionDate    string   `json:"prediction_date,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// Validate checks presence, ranges and the optional date, returning the
// validated domain request.
func (b *YieldRequestBody) Validate(r Ranges) (predict.YieldRequest, error) {
	var zero predict.YieldRequest

	if err := requireInt("milking_frequency", b.MilkingFrequency, r.MilkingFrequencyMin, r.MilkingFrequencyMax); err != nil {
		return zero, err
	}
	if err := requireFloatMin("conductivity", b.Conductivity, 0); err != nil {
		return zero, err
	}
	if err := requireFloat("temperature", b.Temperature, r.TemperatureMin, r.TemperatureMax); err != nil {
		return zero, err
	}
	if err := requireFloat("fat_percentage", b.FatPercentage, 0, r.FatPercentageMax); err != nil {
		return zero, err
	}
	if err := requireFloat("protein_percentage", b.ProteinPercentage, 0, r.ProteinPercentageMax); err != nil {
		return zero, err
	}
	if err := requireFloatMin("concentrate_intake", b.ConcentrateIntake, 0); err != nil {
		return zero, err
	}
	if err := requireInt("milking_month", b.MilkingMonth, 1, 12); err != nil {
		return zero, err
	}
	if err := requireInt("milking_day_of_week", b.MilkingDayOfWeek, 0, 6); err != nil {
		return zero, err
	}

	date, err := validateDate("prediction_date", b.PredictionDate)
	if err != nil {
		return zero, err
	}

	return predict.YieldRequest{
		CowID:             b.CowID,
		MilkingFrequency:  *b.MilkingFrequency,
		Conductivity:      *b.Conductivity,
		Temperature:       *b.Temperature,
		FatPercentage:     *b.FatPercentage,
		ProteinPercentage: *b.ProteinPercentage,
		ConcentrateIntake: *b.ConcentrateIntake,
		MilkingMonth:      *b.MilkingMonth,
		MilkingDayOfWeek:  *b.MilkingDayOfWeek,
		PredictionDate:    date,
		Notes:             b.Notes,
	}, nil
}

// MastitisRequestBody is the wire form of a lab-feature mastitis request.
type MastitisRequestBody struct {
	CowID             string   `json:"cow_id,omitempty"`
	MilkYield         *float64 `json:"milk_yield"`
	Conductivity      *float64 `json:"conductivity"`
	FatPercentage     *float64 `json:"fat_percentage"`
	ProteinPercentage *float64 `json:"protein_percentage"`
	LactationNumber   *int     `json:"lactation_number"`
	PredictionDate    string   `json:"prediction_date,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

func (b *MastitisRequestBody) Validate(r Ranges) (predict.MastitisRequest, error) {
	var zero predict.MastitisRequest

	if err := requireFloatMin("milk_yield", b.MilkYield, 0); err != nil {
		return zero, err
	}
	if err := requireFloatMin("conductivity", b.Conductivity, 0); err != nil {
		return zero, err
	}
	if err := requireFloat("fat_percentage", b.FatPercentage, 0, r.FatPercentageMax); err != nil {
		return zero, err
	}
	if err := requireFloat("protein_percentage", b.ProteinPercentage, 0, r.ProteinPercentageMax); err != nil {
		return zero, err
	}
	if err := requireInt("lactation_number", b.LactationNumber, r.LactationNumberMin, r.LactationNumberMax); err != nil {
		return zero, err
	}

	date, err := validateDate("prediction_date", b.PredictionDate)
	if err != nil {
		return zero, err
	}

	return predict.MastitisRequest{
		CowID:             b.CowID,
		MilkYield:         *b.MilkYield,
		Conductivity:      *b.Conductivity,
		FatPercentage:     *b.FatPercentage,
		ProteinPercentage: *b.ProteinPercentage,
		LactationNumber:   *b.LactationNumber,
		PredictionDate:    date,
		Notes:             b.Notes,
	}, nil
}

// SCCRequestBody is the wire form of a somatic-cell-count request.
type SCCRequestBody struct {
	CowID            string   `json:"cow_id,omitempty"`
	SomaticCellCount *float64 `json:"somatic_cell_count"`
	MeasurementDate  string   `json:"measurement_date,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

func (b *SCCRequestBody) Validate(Ranges) (predict.SCCRequest, error) {
	var zero predict.SCCRequest

	if err := requireFloatMin("somatic_cell_count", b.SomaticCellCount, 0); err != nil {
		return zero, err
	}

	date, err := validateDate("measurement_date", b.MeasurementDate)
	if err != nil {
		return zero, err
	}

	return predict.SCCRequest{
		CowID:            b.CowID,
		SomaticCellCount: *b.SomaticCellCount,
		MeasurementDate:  date,
		Notes:            b.Notes,
	}, nil
}

// BatchBody is the shared wire form of batch requests. Item decoding is
// deferred so one envelope covers all three batch kinds.
type BatchBody[T any] struct {
	Predictions []T    `json:"predictions"`
	BatchName   string `json:"batch_name,omitempty"`
}

// validateBatchSize enforces the uniform batch ceiling for every batch kind.
func validateBatchSize(n, max int) error {
	if n == 0 {
		return &ValidationError{Field: "predictions", Message: "batch must contain at least one item"}
	}
	if n > max {
		return &ValidationError{Field: "predictions", Message: fmt.Sprintf("batch exceeds the maximum of %d items", max)}
	}
	return nil
}

func requireInt(field string, v *int, min, max int) error {
	if v == nil {
		return &ValidationError{Field: field, Message: "required field is missing"}
	}
	if *v < min || *v > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, *v)}
	}
	return nil
}

func requireFloat(field string, v *float64, min, max float64) error {
	if v == nil {
		return &ValidationError{Field: field, Message: "required field is missing"}
	}
	if *v < min || *v > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %g and %g, got %g", min, max, *v)}
	}
	return nil
}

func requireFloatMin(field string, v *float64, min float64) error {
	if v == nil {
		return &ValidationError{Field: field, Message: "required field is missing"}
	}
	if *v < min {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %g, got %g", min, *v)}
	}
	return nil
}

// validateDate accepts an empty value or a YYYY-MM-DD calendar date.
func validateDate(field, v string) (string, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return "", &ValidationError{Field: field, Message: "must be a YYYY-MM-DD date"}
	}
	return trimmed, nil
}
