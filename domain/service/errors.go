package service

import (
	"errors"
	"fmt"
)

// Reader error taxonomy. The traversal never catches or retries these; the
// first failure aborts the whole read and reaches the caller as-is.
var (
	// ErrNotFound indicates the host reported the page or attachment absent.
	ErrNotFound = errors.New("page not found")

	// ErrUnauthorized indicates the host rejected the credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the credential lacks access to the resource.
	ErrForbidden = errors.New("forbidden")
)

// RemoteError reports any other non-success response or malformed payload
// from the wiki host.
type RemoteError struct {
	Status int
	URL    string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d from %s", e.Status, e.URL)
}

// ConversionError reports an HTML-to-Markdown failure for one page.
type ConversionError struct {
	PageID string
	Err    error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert page %s: %v", e.PageID, e.Err)
}

// Unwrap returns the underlying converter error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}
