// Package config provides centralized configuration management for salescli.
// It loads configuration from environment variables and an optional YAML file,
// validates it, and hands an explicit value to the pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (SALES_CONFIG_FILE, salescli.yaml or config/salescli.yaml)
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_PIPELINE_DATA_DIR=data
//	SALES_PIPELINE_OUTPUT_FILENAME=formatted_sales.csv
//	SALES_PIPELINE_TARGET_PRODUCT="Pink Morsel"
//	SALES_PIPELINE_WORKERS=4
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_METRIC_EXPORTER=prometheus
//
// # Validation
//
// Validation runs through go-playground/validator struct tags, followed by
// checks that span fields (required column spelling, file paths for the
// selected log output and metrics exporter).
package config
