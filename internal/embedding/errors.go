package embedding

import "fmt"

// UnavailableError reports an embedding provider failure.
// It is surfaced per request; providers are never retried internally.
type UnavailableError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding provider %s unavailable: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding provider %s unavailable: %s", e.Provider, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// DimensionMismatchError reports two vectors that cannot be compared
type DimensionMismatchError struct {
	Left  int
	Right int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.Left, e.Right)
}

// StoreError reports a failure of a persistent embedding store
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
