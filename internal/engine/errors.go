// Package engine wires the normalizer, extractor, analyzers, scorer and context builder
// into the parse and score operations exposed to callers.
package engine

import "fmt"

// ParseError reports a document that could not be turned into a Document
type ParseError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
