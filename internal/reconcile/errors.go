package reconcile

import (
	"errors"
	"fmt"
)

// Error categories for reconciliation failures
const (
	// ErrMalformedDocument means a top-level key of a document is missing or has
	// the wrong shape. Nothing can be reconciled from such a document.
	ErrMalformedDocument = "malformed_document"

	// ErrPartialEntryMalformed marks a single nested entry that was skipped or
	// read with defaults. It is only ever reported to an Observer.
	ErrPartialEntryMalformed = "partial_entry_malformed"

	// ErrInvalidInput represents invalid arguments passed to the engine
	ErrInvalidInput = "invalid_input"
)

// Error describes a reconciliation problem together with the document and the
// path inside it where it was found.
type Error struct {
	// Category helps with programmatic error handling
	Category string

	// Document is the source document ("advisor" or "price")
	Document string

	// Path locates the offending entry, e.g. "spot_advisor.us-east-1.Linux.m5.large"
	Path string

	// Message provides human-readable details
	Message string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns the error message
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s document: %s", e.Category, e.Document, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap returns the underlying error (for errors.Is/As support)
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new error with the given category and details
func NewError(category, document, path, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Document:   document,
		Path:       path,
		Message:    message,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category string) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}

	return false
}
