package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"dairyai/internal/common"
)

type Settings struct {
	ListenPort    int
	MetricsPort   int
	ModelsDir     string
	ModelBaseURL  string
	FetchTimeout  time.Duration
	BatchMaxItems int
	SchemaVersion string
	CatalogPath   string
}

type ConfigFile struct {
	Server struct {
		ListenPort  int `yaml:"listenPort"`
		MetricsPort int `yaml:"metricsPort"`
	} `yaml:"server"`

	Models struct {
		Dir          string `yaml:"dir"`
		BaseURL      string `yaml:"baseURL"`
		FetchTimeout string `yaml:"fetchTimeout"`
	} `yaml:"models"`

	Prediction struct {
		BatchMaxItems int    `yaml:"batchMaxItems"`
		SchemaVersion string `yaml:"schemaVersion"`
	} `yaml:"prediction"`

	System struct {
		CatalogPath string `yaml:"catalogPath"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(config.Models.FetchTimeout)
	if err != nil {
		fetchTimeout = 30 * time.Second
	}

	settings := Settings{
		ListenPort:    getIntFromEnvOrConfig(common.EnvListenPort, config.Server.ListenPort, common.DefaultListenPort),
		MetricsPort:   getIntFromEnvOrConfig(common.EnvMetricsPort, config.Server.MetricsPort, common.DefaultMetricsPort),
		ModelsDir:     getEnvOrDefault(common.EnvModelsDir, orDefault(config.Models.Dir, common.DefaultModelsDir)),
		ModelBaseURL:  getEnvOrDefault(common.EnvModelBaseURL, config.Models.BaseURL),
		FetchTimeout:  getDurationOrDefault(common.EnvFetchTimeout, fetchTimeout),
		BatchMaxItems: getIntFromEnvOrConfig(common.EnvBatchMaxItems, config.Prediction.BatchMaxItems, common.DefaultBatchMaxItems),
		SchemaVersion: getEnvOrDefault(common.EnvSchemaVersion, orDefault(config.Prediction.SchemaVersion, common.DefaultSchemaVersion)),
		CatalogPath:   getEnvOrDefault(common.EnvCatalogPath, config.System.CatalogPath),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ListenPort:    getIntOrDefault(common.EnvListenPort, common.DefaultListenPort),
		MetricsPort:   getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		ModelsDir:     getEnvOrDefault(common.EnvModelsDir, common.DefaultModelsDir),
		ModelBaseURL:  os.Getenv(common.EnvModelBaseURL), // optional
		FetchTimeout:  getDurationOrDefault(common.EnvFetchTimeout, 30*time.Second),
		BatchMaxItems: getIntOrDefault(common.EnvBatchMaxItems, common.DefaultBatchMaxItems),
		SchemaVersion: getEnvOrDefault(common.EnvSchemaVersion, common.DefaultSchemaVersion),
		CatalogPath:   os.Getenv(common.EnvCatalogPath), // optional
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, defaultValue string) string {
	if v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.ListenPort < common.MinPort || settings.ListenPort > common.MaxPort {
		return fmt.Errorf("listen port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.ListenPort)
	}
	if settings.MetricsPort < common.MinPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.MetricsPort)
	}
	if settings.ListenPort == settings.MetricsPort {
		return fmt.Errorf("listen port and metrics port must differ, both are %d", settings.ListenPort)
	}

	if settings.ModelsDir == "" {
		return fmt.Errorf("%s", common.ErrMsgModelsDirRequired)
	}

	if settings.BatchMaxItems < common.MinBatchMaxItems || settings.BatchMaxItems > common.MaxBatchMaxItems {
		return fmt.Errorf("batch max items must be between %d and %d, got %d",
			common.MinBatchMaxItems, common.MaxBatchMaxItems, settings.BatchMaxItems)
	}

	if settings.SchemaVersion != "v1" && settings.SchemaVersion != "v2" {
		return fmt.Errorf("%s, got %s", common.ErrMsgBadSchemaVersion, settings.SchemaVersion)
	}

	if settings.FetchTimeout < time.Second || settings.FetchTimeout > 5*time.Minute {
		return fmt.Errorf("fetch timeout must be between 1s and 5m, got %v", settings.FetchTimeout)
	}

	return nil
}
