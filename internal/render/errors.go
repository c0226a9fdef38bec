package render

import "fmt"

// ConfigError reports an invalid or unrecognized configuration value
// reaching the render core. It is fatal to the render call: the caller
// gets no image, never a partially drawn one.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("render: invalid config %s=%q: %s", e.Field, e.Value, e.Reason)
}

func configErr(field, value, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
