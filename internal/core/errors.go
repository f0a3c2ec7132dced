package core

import "fmt"

// ConfigurationError reports an invalid rule, predicate or token parameter
// definition found at setup time. It is the only class of error this core
// surfaces: evaluation-time failures never propagate as errors, they degrade
// to Deny / invalid instead.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ConfigErrorf builds a ConfigurationError from a format string.
func ConfigErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
