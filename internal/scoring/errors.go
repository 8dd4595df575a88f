package scoring

import "fmt"

// InvalidWeightConfigError reports misconfigured weights or band thresholds.
// It is fatal at startup.
type InvalidWeightConfigError struct {
	Message string
	Cause   error
}

func (e *InvalidWeightConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid scoring config: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid scoring config: %s", e.Message)
}

func (e *InvalidWeightConfigError) Unwrap() error {
	return e.Cause
}

// InputError reports a scoring request missing a required part
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid scoring input: %s", e.Message)
}
