package wordguess

import "github.com/kailas-cloud/wordguess/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrWordListNotFound    = domain.ErrDictionaryNotFound
	ErrListingNotSupported = domain.ErrListingNotSupported
)
