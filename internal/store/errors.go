// Package store holds the resume document aggregate and its mutation operations.
package store

import "fmt"

// ValidationError reports malformed input to a mutation. The document is
// left unchanged whenever one is returned.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Field != "" {
		msg = fmt.Sprintf("validation error: %s", e.Field)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s - %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// DuplicateSectionError reports a custom section whose key already exists
type DuplicateSectionError struct {
	Key string
}

func (e *DuplicateSectionError) Error() string {
	return fmt.Sprintf("section already exists: %s", e.Key)
}
