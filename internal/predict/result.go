package predict

// Result is the uniform prediction envelope shared by all prediction kinds.
// Kind-specific fields are omitted when empty; PredictionClass is a pointer
// because class 0 is a valid classification.
type Result struct {
	PredictionID           string             `json:"prediction_id"`
	CowID                  string             `json:"cow_id,omitempty"`
	PredictedMilkYield     *float64           `json:"predicted_milk_yield,omitempty"`
	PredictionMethod       string             `json:"prediction_method,omitempty"`
	PredictionClass        *int               `json:"prediction_class,omitempty"`
	PredictionClassLabel   string             `json:"prediction_class_label,omitempty"`
	Confidence             float64            `json:"confidence"`
	Description            string             `json:"description,omitempty"`
	InputFeatures          map[string]float64 `json:"input_features,omitempty"`
	ClassificationCriteria map[string]string  `json:"classification_criteria,omitempty"`
	ModelVersion           string             `json:"model_version,omitempty"`
	PredictionTime         string             `json:"prediction_time"`
	ProcessingTimeMS       float64            `json:"processing_time_ms"`

	// Inline error record fields, set only for failed batch items.
	Error        bool   `json:"error,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// BatchResult aggregates an ordered batch of prediction results. Failed items
// appear inline as error records, so len(Predictions) always equals
// TotalPredictions and Successful+Failed == Total.
type BatchResult struct {
	BatchID                 string   `json:"batch_id"`
	BatchName               string   `json:"batch_name,omitempty"`
	PredictionMethod        string   `json:"prediction_method,omitempty"`
	TotalPredictions        int      `json:"total_predictions"`
	SuccessfulPredictions   int      `json:"successful_predictions"`
	FailedPredictions       int      `json:"failed_predictions"`
	Predictions             []Result `json:"predictions"`
	BatchCreatedAt          string   `json:"batch_created_at"`
	TotalProcessingTimeMS   float64  `json:"total_processing_time_ms"`
	AverageProcessingTimeMS float64  `json:"average_processing_time_ms"`
}
