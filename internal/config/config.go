// =============================================================================
// Excel API Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration file.
// The file may be written as YAML or JSON and is split into four sections:
//
//   parser    - how spreadsheets are read and validated
//   converter - how the plain JSON artifact is rendered
//   api       - how Documents and curl calls are built
//   logging   - log level and output format
//
// Every option has a default, so an empty (or absent) configuration file is
// valid. Credentials may also come from the environment, optionally loaded
// from a .env file, so that they never have to be stored in the config file.
//
// =============================================================================

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/pkg/utils"
)

// =============================================================================
// ENVIRONMENT VARIABLES
// =============================================================================

const (
	// EnvEndpoint overrides api.endpoint.
	EnvEndpoint = "XL2API_ENDPOINT"

	// EnvUsername overrides api.username.
	EnvUsername = "XL2API_USERNAME"

	// EnvPassword overrides api.password.
	EnvPassword = "XL2API_PASSWORD"
)

// Batching modes for the API section.
const (
	BatchingSingle      = "single"
	BatchingPerDocument = "per-document"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Parser    ParserConfig    `yaml:"parser" json:"parser"`
	Converter ConverterConfig `yaml:"converter" json:"converter"`
	API       APIConfig       `yaml:"api" json:"api"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// ParserConfig controls how tabular sources are loaded.
type ParserConfig struct {
	// RequiredColumns are checked by the advisory validation step.
	// A missing column is logged as a warning.
	RequiredColumns []string `yaml:"requiredColumns" json:"requiredColumns"`

	// Sheet selects the sheet to convert. Unset means all sheets.
	// May be a sheet name or a 0-based index.
	Sheet types.SheetSelector `yaml:"sheet" json:"sheet"`

	// HeaderRow is the 0-based row holding column names.
	// Default: 0
	HeaderRow int `yaml:"headerRow" json:"headerRow"`

	// Strict turns advisory validation findings into errors.
	// Default: false
	Strict bool `yaml:"strict" json:"strict"`
}

// ConverterConfig controls the plain JSON artifact.
type ConverterConfig struct {
	// Indent is the number of spaces per nesting level. 0 means compact.
	// Default: 2
	Indent *int `yaml:"indent" json:"indent"`

	// DateFormat is a strftime pattern used for date cells.
	// Default: "%Y-%m-%d"
	DateFormat string `yaml:"dateFormat" json:"dateFormat"`

	// Flatten collapses nested objects into separator-joined keys.
	// Default: false
	Flatten bool `yaml:"flatten" json:"flatten"`

	// Separator joins flattened keys.
	// Default: "_"
	Separator string `yaml:"separator" json:"separator"`
}

// APIConfig controls Document building and curl generation.
//
// CUSTOMIZATION: ApplicationName, FormName and Locale are stamped on every
// Document. Change them to target a different form on the receiving system.
type APIConfig struct {
	ApplicationName string `yaml:"applicationName" json:"applicationName"`
	FormName        string `yaml:"formName" json:"formName"`
	Locale          string `yaml:"locale" json:"locale"`

	// Endpoint is the URL every generated call targets.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Username and Password enable Basic authentication when both are set.
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`

	// MappingFile is the column -> field name mapping.
	MappingFile string `yaml:"mappingFile" json:"mappingFile"`

	// Sheet is the sheet holding the field rows.
	// Default: "fields"
	Sheet string `yaml:"sheet" json:"sheet"`

	// Batching is "single" (one call for the whole payload) or
	// "per-document" (one call per Document).
	// Default: "single"
	Batching string `yaml:"batching" json:"batching"`
}

// LoggingConfig controls the process-wide logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" json:"level"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format" json:"format"`
}

// OutputConfig controls generated output file names.
type OutputConfig struct {
	// Dir is where artifacts go when no explicit output path is given.
	// Default: "./output"
	Dir string `yaml:"dir" json:"dir"`

	// NameFormat is the generated file name pattern.
	// Placeholders:
	//   {stem}      - input file name without extension
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	//   {ext}       - artifact extension ("json" or "sh")
	// Default: "{stem}_{timestamp}_{uuid}.{ext}"
	NameFormat string `yaml:"nameFormat" json:"nameFormat"`
}

// IndentWidth returns the configured indent, applying the default.
func (c ConverterConfig) IndentWidth() int {
	if c.Indent == nil {
		return 2
	}
	return *c.Indent
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// Load reads the configuration from a YAML or JSON file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. Files ending in
//     ".json" are decoded as JSON, anything else as YAML.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - A NotFound error if the file does not exist, or a Format error if it
//     cannot be parsed or holds invalid values.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrNotFound, "load config", configPath, err)
		}
		return nil, types.NewError(types.ErrIO, "load config", configPath, err)
	}

	var config Config
	if err := decode(configPath, data, &config); err != nil {
		return nil, types.NewError(types.ErrFormat, "load config", configPath, err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, types.NewError(types.ErrFormat, "load config", configPath, err)
	}

	return &config, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. Any other failure is returned.
func LoadOrDefault(configPath string) (*Config, error) {
	config, err := Load(configPath)
	if errors.Is(err, types.ErrNotFound) {
		return Default(), nil
	}
	return config, err
}

func decode(path string, data []byte, out *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Converter.Indent == nil {
		indent := 2
		config.Converter.Indent = &indent
	}
	if config.Converter.DateFormat == "" {
		config.Converter.DateFormat = "%Y-%m-%d"
	}
	if config.Converter.Separator == "" {
		config.Converter.Separator = "_"
	}

	if config.API.ApplicationName == "" {
		config.API.ApplicationName = "ENGINE"
	}
	if config.API.FormName == "" {
		config.API.FormName = "ENGINE_FIELD_SETTINGS"
	}
	if config.API.Locale == "" {
		config.API.Locale = "en"
	}
	if config.API.Sheet == "" {
		config.API.Sheet = "fields"
	}
	if config.API.Batching == "" {
		config.API.Batching = BatchingSingle
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "./output"
	}
	if config.Output.NameFormat == "" {
		config.Output.NameFormat = "{stem}_{timestamp}_{uuid}.{ext}"
	}
}

// validate rejects values that no component could act on.
func validate(config *Config) error {
	if config.Parser.HeaderRow < 0 {
		return fmt.Errorf("parser.headerRow must not be negative, got %d", config.Parser.HeaderRow)
	}
	if config.Converter.IndentWidth() < 0 {
		return fmt.Errorf("converter.indent must not be negative, got %d", config.Converter.IndentWidth())
	}
	switch config.API.Batching {
	case BatchingSingle, BatchingPerDocument:
	default:
		return fmt.Errorf("api.batching must be %q or %q, got %q",
			BatchingSingle, BatchingPerDocument, config.API.Batching)
	}
	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", config.Logging.Format)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnv loads envFile (if it exists) into the process environment and
// then copies any XL2API_* credentials over the API section. Variables that
// are already set in the environment win over the file.
//
// PARAMETERS:
//   - envFile: Path to a dotenv file. An empty path or missing file is ignored.
//
// RETURNS:
//   - A Format error if the file exists but cannot be parsed.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if utils.FileExists(envFile) {
			if err := godotenv.Load(envFile); err != nil {
				return types.NewError(types.ErrFormat, "load env", envFile, err)
			}
		}
	}

	if v, ok := os.LookupEnv(EnvEndpoint); ok && v != "" {
		c.API.Endpoint = v
	}
	if v, ok := os.LookupEnv(EnvUsername); ok && v != "" {
		c.API.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok && v != "" {
		c.API.Password = v
	}
	return nil
}
