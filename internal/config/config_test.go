package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-api-generator/internal/config"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 2, cfg.Converter.IndentWidth())
	assert.Equal(t, "%Y-%m-%d", cfg.Converter.DateFormat)
	assert.Equal(t, "_", cfg.Converter.Separator)
	assert.False(t, cfg.Converter.Flatten)
	assert.True(t, cfg.Parser.Sheet.All())
	assert.Equal(t, "ENGINE", cfg.API.ApplicationName)
	assert.Equal(t, "ENGINE_FIELD_SETTINGS", cfg.API.FormName)
	assert.Equal(t, "en", cfg.API.Locale)
	assert.Equal(t, "fields", cfg.API.Sheet)
	assert.Equal(t, config.BatchingSingle, cfg.API.Batching)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "./output", cfg.Output.Dir)
	assert.Equal(t, "{stem}_{timestamp}_{uuid}.{ext}", cfg.Output.NameFormat)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
parser:
  requiredColumns: [field_id, field_name]
  sheet: 1
  strict: true
converter:
  indent: 0
  dateFormat: "%d/%m/%Y"
  flatten: true
api:
  endpoint: https://api.example.com/documents
  formName: OTHER_FORM
  batching: per-document
logging:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"field_id", "field_name"}, cfg.Parser.RequiredColumns)
	i, ok := cfg.Parser.Sheet.Index()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.True(t, cfg.Parser.Strict)
	assert.Equal(t, 0, cfg.Converter.IndentWidth(), "explicit zero indent is kept")
	assert.Equal(t, "%d/%m/%Y", cfg.Converter.DateFormat)
	assert.True(t, cfg.Converter.Flatten)
	assert.Equal(t, "https://api.example.com/documents", cfg.API.Endpoint)
	assert.Equal(t, "OTHER_FORM", cfg.API.FormName)
	assert.Equal(t, "ENGINE", cfg.API.ApplicationName)
	assert.Equal(t, config.BatchingPerDocument, cfg.API.Batching)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
	"parser": {"sheet": "People"},
	"api": {"sheet": "rows", "locale": "fr"}
}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	name, ok := cfg.Parser.Sheet.Name()
	assert.True(t, ok)
	assert.Equal(t, "People", name)
	assert.Equal(t, "rows", cfg.API.Sheet)
	assert.Equal(t, "fr", cfg.API.Locale)
	assert.Equal(t, 2, cfg.Converter.IndentWidth())
}

func TestLoadEmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "   \n", "# nothing configured yet\n"} {
		cfg, err := config.Load(writeFile(t, "config.yaml", content))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "config.yaml", "parser:\n  sheets: 1\n"},
		{"unknown json key", "config.json", `{"colour": "blue"}`},
		{"malformed yaml", "config.yaml", "parser: [\n"},
		{"bad batching", "config.yaml", "api:\n  batching: sometimes\n"},
		{"negative header row", "config.yaml", "parser:\n  headerRow: -1\n"},
		{"negative indent", "config.yaml", "converter:\n  indent: -2\n"},
		{"bad log format", "config.yaml", "logging:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, types.ErrFormat)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.LoadOrDefault(writeFile(t, "config.yaml", "api:\n  batching: never\n"))
	assert.ErrorIs(t, err, types.ErrFormat)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(config.EnvEndpoint, "https://env.example.com")
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvPassword, "")

	cfg := config.Default()
	cfg.API.Username = "from-config"
	require.NoError(t, cfg.ApplyEnv(""))

	assert.Equal(t, "https://env.example.com", cfg.API.Endpoint)
	assert.Equal(t, "from-config", cfg.API.Username, "empty variables do not override")
	assert.Empty(t, cfg.API.Password)
}

func TestApplyEnvFile(t *testing.T) {
	// Registered with t.Setenv so they are restored after the test, then
	// cleared so godotenv sees them as unset.
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvPassword, "")
	t.Setenv(config.EnvEndpoint, "https://already-set.example.com")
	require.NoError(t, os.Unsetenv(config.EnvUsername))
	require.NoError(t, os.Unsetenv(config.EnvPassword))

	envFile := writeFile(t, ".env", "XL2API_USERNAME=svc\nXL2API_PASSWORD=s3cret\nXL2API_ENDPOINT=https://file.example.com\n")

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, "svc", cfg.API.Username)
	assert.Equal(t, "s3cret", cfg.API.Password)
	assert.Equal(t, "https://already-set.example.com", cfg.API.Endpoint, "process environment wins over the file")
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.ApplyEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestApplyEnvUnreadableFile(t *testing.T) {
	cfg := config.Default()
	err := cfg.ApplyEnv(t.TempDir())
	assert.ErrorIs(t, err, types.ErrFormat)
}
