package parsing

import "fmt"

// EmptyDocumentError is returned when a document has no usable text.
// The caller can recover by re-submitting the source text.
type EmptyDocumentError struct {
	Message string
}

func (e *EmptyDocumentError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("empty document: %s", e.Message)
	}
	return "empty document"
}
