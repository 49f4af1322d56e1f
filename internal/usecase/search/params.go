package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/chunk"
	"github.com/kailas-cloud/wordguess/internal/domain/search/policy"
	"github.com/kailas-cloud/wordguess/internal/domain/search/request"
	"github.com/kailas-cloud/wordguess/internal/domain/search/result"
)

// Defaults used when a caller omits optional search parameters.
const (
	DefaultMinLength       = 4
	DefaultMaxBonusLetters = 3
)

// Params are the raw inputs of a guess command or an HTTP search.
// Nil pointers select the service defaults.
type Params struct {
	Pool      string
	List      string
	MinLength *int
	MaxLength *int
	Bonus     *int
}

// WithLimits overrides the default minimum word length and the largest
// accepted bonus letter count. Non-positive values keep the defaults.
func (s *Service) WithLimits(defaultMinLength, maxBonusLetters int) *Service {
	if defaultMinLength > 0 {
		s.defaultMinLength = defaultMinLength
	}
	if maxBonusLetters > 0 {
		s.maxBonusLetters = maxBonusLetters
	}
	return s
}

// Request turns raw parameters into a validated request. The second return
// value is false when the defaulted length range is empty (a pool shorter than
// the default minimum), in which case no word can match.
func (s *Service) Request(p Params) (*request.Request, bool, error) {
	maxLength := len(p.Pool)
	if p.MaxLength != nil {
		maxLength = *p.MaxLength
	}

	minLength := s.defaultMinLength
	if p.MinLength != nil {
		minLength = *p.MinLength
	} else if p.Pool != "" && maxLength > 0 && minLength > maxLength {
		return nil, false, nil
	}

	bonus := 0
	if p.Bonus != nil {
		bonus = *p.Bonus
	}
	if bonus > s.maxBonusLetters {
		return nil, false, fmt.Errorf("%w: at most %d bonus letters allowed, got %d",
			domain.ErrInvalidRequest, s.maxBonusLetters, bonus)
	}
	pol, err := policy.ForBonus(bonus)
	if err != nil {
		return nil, false, err
	}

	req, err := request.New(p.Pool, minLength, maxLength, pol, p.List)
	if err != nil {
		return nil, false, err
	}
	return &req, true, nil
}

// Search validates p and runs Guess. An empty defaulted length range yields an
// empty result without touching the word list.
func (s *Service) Search(ctx context.Context, p Params, capBytes int) (result.Result, []chunk.Segment, error) {
	req, ok, err := s.Request(p)
	if err != nil {
		return result.Result{}, nil, err
	}
	if !ok {
		return result.Result{}, chunk.Split(nil, capBytes), nil
	}
	return s.Guess(ctx, req, capBytes)
}
