package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrDuplicatePattern    = errors.New("pattern already registered")
	ErrUnknownPattern      = errors.New("unknown pattern")
	ErrUnknownProfile      = errors.New("unknown weight profile")
)

// ConfigError reports an invalid configuration value. Configuration problems
// are fatal: they surface at load time and are never recovered silently.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
