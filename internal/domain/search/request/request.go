package request

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/search/policy"
)

// Request limits.
const (
	// MaxPoolLength is the longest accepted pool word.
	MaxPoolLength = 256
	// MaxDictionaryNameLength is the longest accepted word list name.
	MaxDictionaryNameLength = 64
)

var dictionaryNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Request is a validated word search.
type Request struct {
	pool       string
	minLength  int
	maxLength  int
	policy     policy.Policy
	dictionary string
}

// New validates search parameters. All errors wrap domain.ErrInvalidRequest.
func New(pool string, minLength, maxLength int, p policy.Policy, dictionary string) (Request, error) {
	if pool == "" {
		return Request{}, fmt.Errorf("%w: pool word is required", domain.ErrInvalidRequest)
	}
	if len(pool) > MaxPoolLength {
		return Request{}, fmt.Errorf("%w: pool word too long (max %d bytes)", domain.ErrInvalidRequest, MaxPoolLength)
	}
	if minLength <= 0 || maxLength <= 0 {
		return Request{}, fmt.Errorf("%w: word lengths must be positive, got min=%d max=%d",
			domain.ErrInvalidRequest, minLength, maxLength)
	}
	if minLength > maxLength {
		return Request{}, fmt.Errorf("%w: min length %d exceeds max length %d",
			domain.ErrInvalidRequest, minLength, maxLength)
	}
	if dictionary == "" {
		return Request{}, fmt.Errorf("%w: word list is required", domain.ErrInvalidRequest)
	}
	if len(dictionary) > MaxDictionaryNameLength || !dictionaryNameRe.MatchString(dictionary) {
		return Request{}, fmt.Errorf("%w: invalid word list name %q", domain.ErrInvalidRequest, dictionary)
	}

	return Request{
		pool:       pool,
		minLength:  minLength,
		maxLength:  maxLength,
		policy:     p,
		dictionary: dictionary,
	}, nil
}

// Pool returns the letter pool word as given.
func (r *Request) Pool() string { return r.pool }

// MinLength returns the shortest accepted word length in bytes.
func (r *Request) MinLength() int { return r.minLength }

// MaxLength returns the longest accepted word length in bytes.
func (r *Request) MaxLength() int { return r.maxLength }

// Policy returns the matching policy.
func (r *Request) Policy() policy.Policy { return r.policy }

// Dictionary returns the word list name.
func (r *Request) Dictionary() string { return r.dictionary }
