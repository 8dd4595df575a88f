package llmcontext

import (
	"fmt"
	"strings"
)

// UnmaskedInputError reports PII that survived the upstream masking step.
// The context is never emitted when this error is returned.
type UnmaskedInputError struct {
	Document string   // "resume" or "job"
	Patterns []string // names of the patterns that matched
}

func (e *UnmaskedInputError) Error() string {
	return fmt.Sprintf("unmasked PII in %s text: %s", e.Document, strings.Join(e.Patterns, ", "))
}

// PatternError reports a PII pattern that does not compile
type PatternError struct {
	Name  string
	Cause error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid PII pattern %q: %v", e.Name, e.Cause)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}
