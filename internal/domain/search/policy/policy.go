package policy

import (
	"fmt"

	"github.com/kailas-cloud/wordguess/internal/domain"
	"github.com/kailas-cloud/wordguess/internal/domain/letters"
)

// Kind is the matching strategy.
type Kind string

// Policy kinds.
const (
	// KindExact requires every candidate letter to be covered by the pool.
	KindExact Kind = "exact"
	// KindBounded tolerates up to MaxExcess letters the pool does not supply.
	KindBounded Kind = "bounded"
)

// Policy decides whether a candidate word can be formed from a letter pool.
type Policy struct {
	kind      Kind
	maxExcess int
}

// Exact returns the exact-subset policy.
func Exact() Policy {
	return Policy{kind: KindExact}
}

// Bounded returns a policy allowing up to maxExcess bonus letters.
func Bounded(maxExcess int) (Policy, error) {
	if maxExcess < 0 {
		return Policy{}, fmt.Errorf("%w: bonus letters must be >= 0, got %d", domain.ErrInvalidRequest, maxExcess)
	}
	return Policy{kind: KindBounded, maxExcess: maxExcess}, nil
}

// ForBonus picks Exact for zero bonus letters and Bounded otherwise.
func ForBonus(bonus int) (Policy, error) {
	if bonus == 0 {
		return Exact(), nil
	}
	return Bounded(bonus)
}

// Kind returns the policy kind. The zero Policy reports KindExact.
func (p Policy) Kind() Kind {
	if p.kind == "" {
		return KindExact
	}
	return p.kind
}

// MaxExcess returns the number of tolerated bonus letters (0 for Exact).
func (p Policy) MaxExcess() int { return p.maxExcess }

func (p Policy) String() string {
	if p.Kind() == KindBounded {
		return fmt.Sprintf("%s(%d)", KindBounded, p.maxExcess)
	}
	return string(KindExact)
}

// Matches reports whether candidate is acceptable against pool.
func (p Policy) Matches(pool, candidate *letters.Multiset) bool {
	if p.Kind() == KindExact {
		for _, b := range candidate.Distinct() {
			if pool.Count(b) < candidate.Count(b) {
				return false
			}
		}
		return true
	}
	return candidate.Deficit(pool) <= p.maxExcess
}

// Deficit returns how many candidate letters the pool cannot supply.
func Deficit(pool, candidate *letters.Multiset) int {
	return candidate.Deficit(pool)
}
