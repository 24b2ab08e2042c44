package op

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrConfig    = errors.New("invalid op configuration")
	ErrInputType = errors.New("unexpected input type")
)

// ConfigError describes a construction-time validation failure.
type ConfigError struct {
	Op      string // Op type, e.g. "Resize3D"
	Field   string // Offending argument
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Details)
}

// Is makes errors.Is(err, ErrConfig) true for every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError builds a ConfigError with a formatted detail message.
func NewConfigError(op, field, format string, args ...any) error {
	return &ConfigError{Op: op, Field: field, Details: fmt.Sprintf(format, args...)}
}
