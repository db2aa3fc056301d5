// Package config provides configuration loading and validation for
// applications built on iterkit.
//
// It uses Viper to load configuration from files and environment variables,
// supporting YAML config files, .env files, and environment overrides.
//
// # Usage
//
//	var cfg config.ToolkitConfig
//	err := config.LoadConfig(&cfg)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
//
// Environment variables override file values using underscore-separated
// paths (e.g., STREAM_BUFFER_SIZE, RETRY_MAX_ATTEMPTS).
package config
