package extraction

import "fmt"

// ConfigError reports an invalid matching policy
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid extraction config: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid extraction config: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
