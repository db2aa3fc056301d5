package config

import (
	"fmt"
	"time"

	"github.com/kbukum/iterkit/logger"
	"github.com/kbukum/iterkit/resilience"
	"github.com/kbukum/iterkit/validation"
)

// StreamConfig tunes the default behavior of stream stages.
type StreamConfig struct {
	// BufferSize is the default channel capacity for buffered stages.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size" validate:"min=0"`
	// BatchSize is the default element count for Batch stages.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"min=0"`
	// BatchTimeout is the default flush timeout for Batch stages.
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	// ThrottleInterval is the default minimum spacing between emitted elements.
	ThrottleInterval time.Duration `yaml:"throttle_interval" mapstructure:"throttle_interval"`
	// Parallelism is the default worker count for Parallel stages.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"min=0"`
}

// ApplyDefaults applies default values to stream configuration.
func (c *StreamConfig) ApplyDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = 16
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = time.Second
	}
	if c.Parallelism == 0 {
		c.Parallelism = 4
	}
}

// Validate validates stream configuration.
func (c *StreamConfig) Validate() error {
	v := validation.New().
		NonNegative("stream.buffer_size", c.BufferSize).
		NonNegative("stream.batch_size", c.BatchSize).
		NonNegativeDuration("stream.batch_timeout", c.BatchTimeout).
		NonNegativeDuration("stream.throttle_interval", c.ThrottleInterval).
		NonNegative("stream.parallelism", c.Parallelism)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// RetryConfig tunes producer retry behavior for stream.WithRetry.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"min=0"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	BackoffFactor  float64       `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	Jitter         float64       `yaml:"jitter" mapstructure:"jitter" validate:"min=0,max=1"`
}

// ApplyDefaults applies default values to retry configuration.
func (c *RetryConfig) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
}

// Validate validates retry configuration.
func (c *RetryConfig) Validate() error {
	v := validation.New().
		NonNegative("retry.max_attempts", c.MaxAttempts).
		NonNegativeDuration("retry.initial_backoff", c.InitialBackoff).
		NonNegativeDuration("retry.max_backoff", c.MaxBackoff).
		Fraction("retry.jitter", c.Jitter)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToResilience converts the config section into a resilience.RetryConfig.
func (c *RetryConfig) ToResilience() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    c.MaxAttempts,
		InitialBackoff: c.InitialBackoff,
		MaxBackoff:     c.MaxBackoff,
		BackoffFactor:  c.BackoffFactor,
		Jitter:         c.Jitter,
	}
}

// ToolkitConfig is the top-level configuration for iterkit consumers.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.ToolkitConfig `yaml:",inline" mapstructure:",squash"`
//	    Feed feedConfig `yaml:"feed" mapstructure:"feed"`
//	}
type ToolkitConfig struct {
	Base    BaseConfig    `yaml:"base" mapstructure:"base"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	Stream  StreamConfig  `yaml:"stream" mapstructure:"stream"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults applies default values to every section.
// Override this in embedding structs and call ToolkitConfig.ApplyDefaults first.
func (c *ToolkitConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Stream.ApplyDefaults()
	c.Retry.ApplyDefaults()
}

// Validate validates every section, including struct tag constraints.
// Override this in embedding structs and call ToolkitConfig.Validate first.
func (c *ToolkitConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("config.stream: %w", err)
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("config.retry: %w", err)
	}
	return nil
}
