package config

import "fmt"

// ConfigError is a parse failure scoped to one configuration key, so one
// malformed option does not mask the others.
type ConfigError struct {
	Key string
	Err error
}

// Error implements the error interface
func (e ConfigError) Error() string {
	return fmt.Sprintf("configuration key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying parse error
func (e ConfigError) Unwrap() error {
	return e.Err
}
