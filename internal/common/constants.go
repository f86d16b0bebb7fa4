package common

// Model families served by the registry
const (
	FamilyYield    = "yield"
	FamilyMastitis = "mastitis"
)

// Model version tags reported in prediction envelopes
const (
	YieldModelVersion    = "v2.0.0"
	MastitisModelVersion = "mastitis_rf_v1"
)

// Artifact file names under the models directory
const (
	YieldModelFile     = "milk_yield_rf_v2.json"
	YieldScalerFile    = "milk_yield_scaler_v2.json"
	MastitisModelFile  = "mastitis_rf_v1.json"
	MastitisScalerFile = "mastitis_scaler_v1.json"
)

// Environment variable keys
const (
	EnvConfigFile    = "CONFIG_FILE"
	EnvListenPort    = "LISTEN_PORT"
	EnvMetricsPort   = "METRICS_PORT"
	EnvModelsDir     = "MODELS_DIR"
	EnvModelBaseURL  = "MODEL_BASE_URL"
	EnvFetchTimeout  = "FETCH_TIMEOUT"
	EnvBatchMaxItems = "BATCH_MAX_ITEMS"
	EnvSchemaVersion = "SCHEMA_VERSION"
	EnvCatalogPath   = "CATALOG_PATH"
)

// Configuration defaults
const (
	DefaultListenPort    = 8000
	DefaultMetricsPort   = 8080
	DefaultModelsDir     = "models"
	DefaultBatchMaxItems = 1000
	DefaultSchemaVersion = "v2"
)

// Validation constants
const (
	MinPort          = 1024
	MaxPort          = 65535
	MinBatchMaxItems = 1
	MaxBatchMaxItems = 10000
)

// Common error messages
const (
	ErrMsgModelsDirRequired = "models directory is required"
	ErrMsgBadSchemaVersion  = "schema version must be v1 or v2"
)
