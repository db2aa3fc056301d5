// Package validation provides input validation utilities for iterkit configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for configuration structs.
//
// # Struct Tag Validation
//
//	type StreamConfig struct {
//	    BufferSize int    `validate:"min=1"`
//	    Name       string `validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Min("buffer_size", cfg.BufferSize, 1)
//	err := v.Validate()
package validation
