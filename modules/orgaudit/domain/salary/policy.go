// Package salary defines the closed set of manager salary comparison rules.
package salary

import (
	"math"
	"strings"

	"github.com/go-faster/errors"
)

type Kind string

const (
	Overpaid  Kind = "overpaid"
	Underpaid Kind = "underpaid"
)

const (
	DefaultBigRatio   = 1.5
	DefaultSmallRatio = 1.2
)

var (
	ErrInvalidComparisonKind = errors.New("invalid salary comparison kind")
	ErrInvalidRatio          = errors.New("invalid salary ratio")
)

func (k Kind) String() string { return string(k) }

// ParseKind accepts the canonical names plus the "big"/"small" aliases used
// by older tooling.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overpaid", "big":
		return Overpaid, nil
	case "underpaid", "small":
		return Underpaid, nil
	default:
		return "", errors.Errorf("%q: %w", s, ErrInvalidComparisonKind)
	}
}

// Policy is one comparison rule: Ratio scales the average subordinate salary
// before comparing it with the manager salary.
type Policy struct {
	Kind  Kind
	Ratio float64
}

// NewPolicy picks bigRatio for Overpaid and smallRatio for Underpaid.
func NewPolicy(kind Kind, bigRatio, smallRatio float64) (Policy, error) {
	switch kind {
	case Overpaid:
		if !validRatio(bigRatio) {
			return Policy{}, errors.Errorf("big ratio %v: %w", bigRatio, ErrInvalidRatio)
		}
		return Policy{Kind: Overpaid, Ratio: bigRatio}, nil
	case Underpaid:
		if !validRatio(smallRatio) {
			return Policy{}, errors.Errorf("small ratio %v: %w", smallRatio, ErrInvalidRatio)
		}
		return Policy{Kind: Underpaid, Ratio: smallRatio}, nil
	default:
		return Policy{}, errors.Errorf("%q: %w", string(kind), ErrInvalidComparisonKind)
	}
}

// validRatio accepts finite ratios above zero.
func validRatio(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Difference returns how far managerSalary is outside the allowed band, or 0
// when it is inside.
func (p Policy) Difference(managerSalary, avgSubordinateSalary float64) float64 {
	limit := avgSubordinateSalary * p.Ratio
	switch p.Kind {
	case Overpaid:
		if managerSalary > limit {
			return managerSalary - limit
		}
	case Underpaid:
		if managerSalary < limit {
			return limit - managerSalary
		}
	}
	return 0
}
