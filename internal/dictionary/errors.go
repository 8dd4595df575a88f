package dictionary

import "fmt"

// InvalidDictionaryError reports a malformed skill taxonomy.
// It is fatal at startup: no dictionary-dependent component can be built without a valid taxonomy.
type InvalidDictionaryError struct {
	Skill   string // canonical name of the offending entry, if known
	Message string
	Cause   error
}

func (e *InvalidDictionaryError) Error() string {
	prefix := "invalid dictionary"
	if e.Skill != "" {
		prefix = fmt.Sprintf("invalid dictionary entry %q", e.Skill)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *InvalidDictionaryError) Unwrap() error {
	return e.Cause
}
