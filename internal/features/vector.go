// Package features assembles fixed-order feature vectors from validated
// prediction requests. Order is load-bearing: it must match the order the
// scaler and forest were fit with.
package features

// YieldFeatures are the inputs of the milk-yield regressor, in training order.
type YieldFeatures struct {
	MilkingFrequency  float64
	Conductivity      float64
	Temperature       float64
	FatPercentage     float64
	ProteinPercentage float64
	ConcentrateIntake float64
	MilkingMonth      float64
	MilkingDayOfWeek  float64
}

// MastitisFeatures are the inputs of the mastitis classifier, in training order.
type MastitisFeatures struct {
	MilkYield         float64
	Conductivity      float64
	FatPercentage     float64
	ProteinPercentage float64
	LactationNumber   float64
}

// YieldVector returns the 8-feature vector for the milk-yield model.
func YieldVector(f YieldFeatures) []float64 {
	return []float64{
		f.MilkingFrequency,
		f.Conductivity,
		f.Temperature,
		f.FatPercentage,
		f.ProteinPercentage,
		f.ConcentrateIntake,
		f.MilkingMonth,
		f.MilkingDayOfWeek,
	}
}

// MastitisVector returns the 5-feature vector for the mastitis model.
func MastitisVector(f MastitisFeatures) []float64 {
	return []float64{
		f.MilkYield,
		f.Conductivity,
		f.FatPercentage,
		f.ProteinPercentage,
		f.LactationNumber,
	}
}

// YieldEcho maps the consumed inputs to their human-readable labels for the
// result envelope.
func YieldEcho(f YieldFeatures) map[string]float64 {
	return map[string]float64{
		"milking_frequency":   f.MilkingFrequency,
		"conductivity":        f.Conductivity,
		"temperature":         f.Temperature,
		"fat_percentage":      f.FatPercentage,
		"protein_percentage":  f.ProteinPercentage,
		"concentrate_intake":  f.ConcentrateIntake,
		"milking_month":       f.MilkingMonth,
		"milking_day_of_week": f.MilkingDayOfWeek,
	}
}

// MastitisEcho maps the consumed inputs to their human-readable labels.
func MastitisEcho(f MastitisFeatures) map[string]float64 {
	return map[string]float64{
		"milk_yield":         f.MilkYield,
		"conductivity":       f.Conductivity,
		"fat_percentage":     f.FatPercentage,
		"protein_percentage": f.ProteinPercentage,
		"lactation_number":   f.LactationNumber,
	}
}
