package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMappingFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "idiom_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"in abeyance": "අත් හිටලා"}`), 0o644))
	return path
}

func loadFromContent(t *testing.T, content string) (*Config, error) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	loader, err := NewConfigLoader(configPath)
	require.NoError(t, err)
	return loader.Load()
}

func TestConfigLoader_Load(t *testing.T) {
	t.Run("custom values from an explicit file", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		cfg, err := loadFromContent(t, `server:
  port: 9090
  cors:
    allowed_origins:
      - https://app.example.com
idioms:
  mapping_file: `+mappingFile+`
backend:
  url: http://model.internal:8000
  max_retry_attempts: 5
  circuit_breaker: false
database:
  enabled: true
  host: db.internal
  port: 3307
  database: translations
  username: sinhalate
`)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORS.AllowedOrigins)
		assert.Equal(t, mappingFile, cfg.Idioms.MappingFile)
		assert.Equal(t, "http://model.internal:8000", cfg.Backend.URL)
		assert.Equal(t, uint(5), cfg.Backend.MaxRetryAttempts)
		assert.False(t, cfg.Backend.CircuitBreaker)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3307, cfg.Database.Port)
	})

	t.Run("defaults fill missing fields", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		cfg, err := loadFromContent(t, `idioms:
  mapping_file: `+mappingFile+`
`)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORS.AllowedOrigins)
		assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
		assert.Equal(t, uint(2), cfg.Backend.MaxRetryAttempts)
		assert.True(t, cfg.Backend.CircuitBreaker)
		assert.False(t, cfg.Database.Enabled)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 3306, cfg.Database.Port)
	})

	t.Run("invalid YAML format", func(t *testing.T) {
		_, err := loadFromContent(t, `server:
  invalid yaml format here [[[
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file found but could not be read")
	})

	t.Run("port out of range", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		_, err := loadFromContent(t, `server:
  port: 70000
idioms:
  mapping_file: `+mappingFile+`
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "port")
	})

	t.Run("mapping file does not exist", func(t *testing.T) {
		_, err := loadFromContent(t, `idioms:
  mapping_file: `+filepath.Join(t.TempDir(), "missing.json")+`
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be an existing readable file")
	})

	t.Run("CORS origin with a path is rejected", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		_, err := loadFromContent(t, `server:
  cors:
    allowed_origins:
      - http://localhost:3000/app
idioms:
  mapping_file: `+mappingFile+`
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must contain http or https origins")
	})

	t.Run("CORS origin without a scheme is rejected", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		_, err := loadFromContent(t, `server:
  cors:
    allowed_origins:
      - localhost:3000
idioms:
  mapping_file: `+mappingFile+`
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must contain http or https origins")
	})

	t.Run("invalid backend URL", func(t *testing.T) {
		mappingFile := writeMappingFile(t, t.TempDir())
		_, err := loadFromContent(t, `idioms:
  mapping_file: `+mappingFile+`
backend:
  url: not-a-url
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("environment variables override the file", func(t *testing.T) {
		dir := t.TempDir()
		mappingFile := writeMappingFile(t, dir)
		t.Setenv("SINHALATE_BACKEND_URL", "http://override.internal:9000")
		t.Setenv("IDIOM_MAPPING_PATH", mappingFile)
		t.Setenv("DB_PASSWORD", "hunter2")

		cfg, err := loadFromContent(t, `backend:
  url: http://model.internal:8000
`)
		require.NoError(t, err)

		assert.Equal(t, "http://override.internal:9000", cfg.Backend.URL)
		assert.Equal(t, mappingFile, cfg.Idioms.MappingFile)
		assert.Equal(t, "hunter2", cfg.Database.Password)
	})
}
