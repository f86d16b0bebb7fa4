package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dairyai/internal/common"
)

// clearEnv blanks every configuration variable so a test starts from the
// documented defaults regardless of the ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		common.EnvConfigFile,
		common.EnvListenPort,
		common.EnvMetricsPort,
		common.EnvModelsDir,
		common.EnvModelBaseURL,
		common.EnvFetchTimeout,
		common.EnvBatchMaxItems,
		common.EnvSchemaVersion,
		common.EnvCatalogPath,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, common.DefaultListenPort, s.ListenPort)
	assert.Equal(t, common.DefaultMetricsPort, s.MetricsPort)
	assert.Equal(t, common.DefaultModelsDir, s.ModelsDir)
	assert.Empty(t, s.ModelBaseURL)
	assert.Equal(t, 30*time.Second, s.FetchTimeout)
	assert.Equal(t, common.DefaultBatchMaxItems, s.BatchMaxItems)
	assert.Equal(t, common.DefaultSchemaVersion, s.SchemaVersion)
	assert.Empty(t, s.CatalogPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(common.EnvListenPort, "9100")
	t.Setenv(common.EnvMetricsPort, "9101")
	t.Setenv(common.EnvModelsDir, "/srv/models")
	t.Setenv(common.EnvModelBaseURL, "https://artifacts.example.com/dairy")
	t.Setenv(common.EnvFetchTimeout, "45s")
	t.Setenv(common.EnvBatchMaxItems, "250")
	t.Setenv(common.EnvSchemaVersion, "v1")
	t.Setenv(common.EnvCatalogPath, "/var/lib/dairyai/catalog.db")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, s.ListenPort)
	assert.Equal(t, 9101, s.MetricsPort)
	assert.Equal(t, "/srv/models", s.ModelsDir)
	assert.Equal(t, "https://artifacts.example.com/dairy", s.ModelBaseURL)
	assert.Equal(t, 45*time.Second, s.FetchTimeout)
	assert.Equal(t, 250, s.BatchMaxItems)
	assert.Equal(t, "v1", s.SchemaVersion)
	assert.Equal(t, "/var/lib/dairyai/catalog.db", s.CatalogPath)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	configYAML := `
server:
  listenPort: 9200
  metricsPort: 9201
models:
  dir: /opt/models
  baseURL: https://artifacts.example.com/dairy
  fetchTimeout: 1m
prediction:
  batchMaxItems: 500
  schemaVersion: v1
system:
  catalogPath: /tmp/catalog.db
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))
	t.Setenv(common.EnvConfigFile, path)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9200, s.ListenPort)
	assert.Equal(t, 9201, s.MetricsPort)
	assert.Equal(t, "/opt/models", s.ModelsDir)
	assert.Equal(t, time.Minute, s.FetchTimeout)
	assert.Equal(t, 500, s.BatchMaxItems)
	assert.Equal(t, "v1", s.SchemaVersion)
	assert.Equal(t, "/tmp/catalog.db", s.CatalogPath)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	clearEnv(t)

	configYAML := `
server:
  listenPort: 9200
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))
	t.Setenv(common.EnvConfigFile, path)
	t.Setenv(common.EnvListenPort, "9300")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9300, s.ListenPort)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(common.EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"listen port below range", map[string]string{common.EnvListenPort: "80"}},
		{"ports collide", map[string]string{common.EnvListenPort: "9000", common.EnvMetricsPort: "9000"}},
		{"batch ceiling too large", map[string]string{common.EnvBatchMaxItems: "20000"}},
		{"batch ceiling zero", map[string]string{common.EnvBatchMaxItems: "0"}},
		{"unknown schema version", map[string]string{common.EnvSchemaVersion: "v3"}},
		{"fetch timeout too short", map[string]string{common.EnvFetchTimeout: "100ms"}},
		{"fetch timeout too long", map[string]string{common.EnvFetchTimeout: "10m"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
