package predict

// YieldRequest is a validated milk-yield prediction request. Range and
// presence checks happen at the API layer before a request reaches the
// orchestrator.
type YieldRequest struct {
	CowID             string
	MilkingFrequency  int
	Conductivity      float64
	Temperature       float64
	FatPercentage     float64
	ProteinPercentage float64
	ConcentrateIntake float64
	MilkingMonth      int
	MilkingDayOfWeek  int
	PredictionDate    string
	Notes             string
}

// MastitisRequest is a validated lab-feature mastitis prediction request.
type MastitisRequest struct {
	CowID             string
	MilkYield         float64
	Conductivity      float64
	FatPercentage     float64
	ProteinPercentage float64
	LactationNumber   int
	PredictionDate    string
	Notes             string
}

// SCCRequest is a validated somatic-cell-count classification request.
type SCCRequest struct {
	CowID            string
	SomaticCellCount float64
	MeasurementDate  string
	Notes            string
}
