package config

import "github.com/kbukum/iterkit/validation"

// BaseConfig contains essential fields shared by every iterkit consumer.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	v := validation.New().
		Required("base.name", c.Name).
		Required("base.environment", c.Environment).
		OneOf("base.environment", c.Environment, []string{"development", "staging", "production"})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
