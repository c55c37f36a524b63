package github

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential signals that no credential provider produced a usable token.
	ErrNoCredential = errors.New("github credential not found")
	// ErrEmptyContent signals a content payload without decodable data.
	ErrEmptyContent = errors.New("empty file content payload")

	errBinaryContent = errors.New("content is not valid text")
)

// ListingError reports a failed directory listing request together with the
// HTTP status the API returned.
type ListingError struct {
	path       string
	statusCode int
}

// NewListingError creates a ListingError for the given path and status.
func NewListingError(path string, statusCode int) ListingError {
	return ListingError{path: path, statusCode: statusCode}
}

// Error returns the error string.
func (listingError ListingError) Error() string {
	if listingError.path == "" {
		return fmt.Sprintf("list repository root: unexpected status %d", listingError.statusCode)
	}
	return fmt.Sprintf("list %s: unexpected status %d", listingError.path, listingError.statusCode)
}

// Path reports the repository-relative path whose listing failed.
func (listingError ListingError) Path() string {
	return listingError.path
}

// StatusCode reports the HTTP status of the failed listing.
func (listingError ListingError) StatusCode() int {
	return listingError.statusCode
}

// ContentError reports a failed file content request together with the HTTP
// status the API returned.
type ContentError struct {
	path       string
	statusCode int
}

// NewContentError creates a ContentError for the given path and status.
func NewContentError(path string, statusCode int) ContentError {
	return ContentError{path: path, statusCode: statusCode}
}

// Error returns the error string.
func (contentError ContentError) Error() string {
	return fmt.Sprintf("fetch content of %s: unexpected status %d", contentError.path, contentError.statusCode)
}

// Path reports the repository-relative path whose fetch failed.
func (contentError ContentError) Path() string {
	return contentError.path
}

// StatusCode reports the HTTP status of the failed fetch.
func (contentError ContentError) StatusCode() int {
	return contentError.statusCode
}

// DecodeError reports file content that could not be decoded into text.
type DecodeError struct {
	path string
	err  error
}

// NewDecodeError creates a DecodeError for the given path.
func NewDecodeError(path string, err error) DecodeError {
	return DecodeError{path: path, err: err}
}

// Error returns the error string.
func (decodeError DecodeError) Error() string {
	return fmt.Sprintf("decode content of %s: %v", decodeError.path, decodeError.err)
}

// Unwrap exposes the wrapped error.
func (decodeError DecodeError) Unwrap() error {
	return decodeError.err
}

// Path reports the repository-relative path whose content failed to decode.
func (decodeError DecodeError) Path() string {
	return decodeError.path
}
