package score

import (
	"errors"
	"math"
)

// Policy holds the numeric parameters of the accept/reject decision.
type Policy struct {
	// Threshold is the normalized score an application must strictly exceed to be accepted.
	Threshold float64
	// Midpoint is the normalized score at which the probability of default is 0.5.
	Midpoint float64
	// Spread controls how steep the probability-of-default curve is around Midpoint.
	Spread float64
}

// DefaultPolicy returns the policy the scorecard was calibrated with.
func DefaultPolicy() Policy {
	return Policy{Threshold: 40, Midpoint: 50, Spread: 10}
}

// Validate checks that the probability curve is well defined.
func (p Policy) Validate() error {
	if p.Spread <= 0 || math.IsNaN(p.Spread) || math.IsInf(p.Spread, 0) {
		return errors.New("policy: spread must be a positive number")
	}
	return nil
}

// Accepts reports whether normalized is high enough for acceptance.
func (p Policy) Accepts(normalized float64) bool {
	return normalized > p.Threshold
}

// ProbabilityOfDefault maps a normalized score onto a decreasing logistic curve in (0, 1).
func (p Policy) ProbabilityOfDefault(normalized float64) float64 {
	return 1 - 1/(1+math.Exp(-(normalized-p.Midpoint)/p.Spread))
}
