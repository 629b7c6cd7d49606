package llm

import (
	"errors"
	"fmt"
)

// ConfigError reports invalid model configuration. It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// ProviderError wraps the failure of a single attempt with one key.
type ProviderError struct {
	Attempt   int
	KeyIndex  int
	KeySuffix string
	Model     string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("attempt %d with key #%d (...%s) on %s failed: %v",
		e.Attempt, e.KeyIndex, e.KeySuffix, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ExhaustedError is returned when every attempt of one call failed. It wraps
// the error of the last attempt.
type ExhaustedError struct {
	Model    string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("model %s: all %d attempts failed: %v", e.Model, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// IsExhausted reports whether err is an ExhaustedError.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

// IsConfig reports whether err is a ConfigError.
func IsConfig(err error) bool {
	var cfg *ConfigError
	return errors.As(err, &cfg)
}

var errEmptyResponse = errors.New("model returned an empty response")
