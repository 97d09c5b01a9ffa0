package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	// Point at a nonexistent file so only defaults and env apply.
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Storage.DataDir)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8600, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadWithFile_ReadsYAML(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
storage:
  data_dir: `+dataDir+`
server:
  host: 0.0.0.0
  port: 9100
logging:
  level: debug
  format: console
classifier:
  high_risk_keywords:
    - quit
    - relocate
`, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.Storage.DataDir)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"quit", "relocate"}, cfg.Classifier.HighRiskKeywords)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9100\n", 0600)

	t.Setenv("SERVER_PORT", "9200")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestLoadWithFile_EnvKeyMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	dataDir := t.TempDir()
	t.Setenv("STORAGE_DATA_DIR", dataDir)
	t.Setenv("LOGGING_FORMAT", "console")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.Storage.DataDir)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_RejectsInsecurePermissions(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9100\n", 0644)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}

func TestLoadWithFile_RejectsOversizedFile(t *testing.T) {
	path := writeConfig(t, "# "+strings.Repeat("x", maxConfigFileSize+1)+"\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file too large")
}

func TestLoadWithFile_RejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed\n", 0600)

	_, err := LoadWithFile(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Storage: StorageConfig{DataDir: "/tmp/data"},
		Server:  ServerConfig{Host: "localhost", Port: 8600},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing data dir", func(c *Config) { c.Storage.DataDir = "" }, "storage.data_dir"},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestStorageConfig_DerivedDirs(t *testing.T) {
	c := StorageConfig{DataDir: "/data"}

	assert.Equal(t, filepath.Join("/data", "decisions"), c.DecisionsDir())
	assert.Equal(t, filepath.Join("/data", "reviews"), c.ReviewsDir())
}
