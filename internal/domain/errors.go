package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDictionaryNotFound signals that a word list name did not resolve.
	ErrDictionaryNotFound = errors.New("word list not found")
	// ErrListingNotSupported signals a word list source that cannot enumerate its lists.
	ErrListingNotSupported = errors.New("word list listing not supported")
)
