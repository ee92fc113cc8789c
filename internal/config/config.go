package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salescli/internal/errors"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "SALES"

// ConfigFileEnv names the environment variable that points at a YAML config file.
const ConfigFileEnv = "SALES_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PipelineConfig describes where inputs live and what a run produces.
type PipelineConfig struct {
	DataDir         string   `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	OutputFilename  string   `yaml:"output_filename" envconfig:"OUTPUT_FILENAME" default:"formatted_sales.csv" validate:"required,excludesall=/\\"`
	TargetProduct   string   `yaml:"target_product" envconfig:"TARGET_PRODUCT" default:"Pink Morsel" validate:"required"`
	RequiredColumns []string `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS" default:"product,quantity,price,date,region" validate:"required,min=1,dive,required"`
	Workers         int      `yaml:"workers" envconfig:"WORKERS" default:"1" validate:"gte=1,lte=64"`
	XLSXMirror      bool     `yaml:"xlsx_mirror" envconfig:"XLSX_MIRROR" default:"false"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stderr" validate:"oneof=stderr console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/salescli.log"`
}

// TelemetryConfig controls tracing and metrics export for a run.
type TelemetryConfig struct {
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"none" validate:"oneof=none prometheus"`
	MetricsFile    string  `yaml:"metrics_file" envconfig:"METRICS_FILE" default:"metrics/salescli.prom"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over values from the file.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, explicit, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
		cfg = mergeConfigs(*fileConfig, *explicit, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// fileScalars records which non-string keys the YAML file set, so that an
// explicit zero or false in the file is not mistaken for an absent key.
type fileScalars struct {
	Pipeline struct {
		Workers    *int  `yaml:"workers"`
		XLSXMirror *bool `yaml:"xlsx_mirror"`
	} `yaml:"pipeline"`
	Telemetry struct {
		SampleRatio *float64 `yaml:"sample_ratio"`
	} `yaml:"telemetry"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, *fileScalars, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}

	var explicit fileScalars
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, nil, err
	}

	return &cfg, &explicit, nil
}

// mergeConfigs overlays file values onto env values. A file value wins only
// where the environment did not set the variable explicitly.
func mergeConfigs(fileConfig Config, explicit fileScalars, envConfig Config) Config {
	pick := func(env string, envValue, fileValue string) string {
		if _, set := os.LookupEnv(env); set || fileValue == "" {
			return envValue
		}
		return fileValue
	}
	key := func(section, name string) string {
		return EnvPrefix + "_" + section + "_" + name
	}

	p := &envConfig.Pipeline
	fp := fileConfig.Pipeline
	p.DataDir = pick(key("PIPELINE", "DATA_DIR"), p.DataDir, fp.DataDir)
	p.OutputFilename = pick(key("PIPELINE", "OUTPUT_FILENAME"), p.OutputFilename, fp.OutputFilename)
	p.TargetProduct = pick(key("PIPELINE", "TARGET_PRODUCT"), p.TargetProduct, fp.TargetProduct)
	if _, set := os.LookupEnv(key("PIPELINE", "REQUIRED_COLUMNS")); !set && len(fp.RequiredColumns) > 0 {
		p.RequiredColumns = fp.RequiredColumns
	}
	if _, set := os.LookupEnv(key("PIPELINE", "WORKERS")); !set && explicit.Pipeline.Workers != nil {
		p.Workers = *explicit.Pipeline.Workers
	}
	if _, set := os.LookupEnv(key("PIPELINE", "XLSX_MIRROR")); !set && explicit.Pipeline.XLSXMirror != nil {
		p.XLSXMirror = *explicit.Pipeline.XLSXMirror
	}

	l := &envConfig.Logging
	fl := fileConfig.Logging
	l.Level = pick(key("LOGGING", "LEVEL"), l.Level, fl.Level)
	l.Format = pick(key("LOGGING", "FORMAT"), l.Format, fl.Format)
	l.Output = pick(key("LOGGING", "OUTPUT"), l.Output, fl.Output)
	l.FilePath = pick(key("LOGGING", "FILE_PATH"), l.FilePath, fl.FilePath)

	t := &envConfig.Telemetry
	ft := fileConfig.Telemetry
	t.TraceExporter = pick(key("TELEMETRY", "TRACE_EXPORTER"), t.TraceExporter, ft.TraceExporter)
	t.MetricExporter = pick(key("TELEMETRY", "METRIC_EXPORTER"), t.MetricExporter, ft.MetricExporter)
	t.MetricsFile = pick(key("TELEMETRY", "METRICS_FILE"), t.MetricsFile, ft.MetricsFile)
	if _, set := os.LookupEnv(key("TELEMETRY", "SAMPLE_RATIO")); !set && explicit.Telemetry.SampleRatio != nil {
		t.SampleRatio = *explicit.Telemetry.SampleRatio
	}

	return envConfig
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}

	seen := make(map[string]bool, len(c.Pipeline.RequiredColumns))
	for _, col := range c.Pipeline.RequiredColumns {
		norm := strings.ToLower(strings.TrimSpace(col))
		if norm != col {
			return fmt.Errorf("required column %q must be lowercase without surrounding whitespace", col)
		}
		if seen[norm] {
			return fmt.Errorf("required column %q listed twice", col)
		}
		seen[norm] = true
	}

	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		if c.Logging.FilePath == "" {
			return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
		}
	}

	if c.Telemetry.MetricExporter == "prometheus" && c.Telemetry.MetricsFile == "" {
		return fmt.Errorf("metrics file is required when the prometheus exporter is enabled")
	}

	return nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "excludesall":
		return fmt.Sprintf("%s must be a bare filename", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"salescli.yaml",
		"config/salescli.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			DataDir:         "data",
			OutputFilename:  "formatted_sales.csv",
			TargetProduct:   "Pink Morsel",
			RequiredColumns: []string{"product", "quantity", "price", "date", "region"},
			Workers:         1,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: "logs/salescli.log",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
			MetricsFile:    "metrics/salescli.prom",
			SampleRatio:    1,
		},
	}
}
