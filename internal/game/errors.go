package game

import (
	"errors"
	"fmt"
)

// ErrConfig is matched by every content validation failure.
var ErrConfig = errors.New("invalid content")

// ConfigError reports malformed authored data. It is fatal to starting a
// battle with that data.
type ConfigError struct {
	Subject string
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Subject, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(subject, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Subject: subject, Field: field, Reason: fmt.Sprintf(format, args...)}
}
