package score

import (
	"fmt"
	"log/slog"
	"strconv"

	"scorecard/internal/score/rule"
	"scorecard/internal/scorecard"
)

// Evaluator turns a selection of classes into a credit decision.
//
// The index and the rule table are read-only after construction, so a single Evaluator can
// serve concurrent requests without locking.
type Evaluator struct {
	index  *scorecard.Index
	rules  rule.Set
	policy Policy
}

// NewEvaluator creates an evaluator over index with the given rejection rules and policy.
func NewEvaluator(index *scorecard.Index, rules rule.Set, policy Policy) *Evaluator {
	return &Evaluator{
		index:  index,
		rules:  rules,
		policy: policy,
	}
}

// Index returns the scorecard the evaluator scores against.
func (e *Evaluator) Index() *scorecard.Index {
	return e.index
}

// Evaluate scores sel in order.
//
// Each choice is first checked against the rejection rules; the first match rejects the
// application and ends the walk, so later choices are neither scored nor explained.
// Otherwise the class points are added, with unknown variables and classes contributing 0.
// Without a hard rejection the total is normalized against the index range and the
// decision follows the policy threshold.
//
// Returns *scorecard.EmptyIndexError when the index has no variables and
// *DegenerateRangeError when its minimum and maximum possible scores coincide.
func (e *Evaluator) Evaluate(sel Selection) (*Result, error) {
	result := &Result{
		Decision:    Accepted,
		Explanation: make([]string, 0, len(sel)+1),
	}

	for _, choice := range sel {
		if r, found := e.rules.Match(choice.Variable, choice.Response); found {
			result.Decision = Rejected
			result.RejectedBy = choice.Variable
			result.Explanation = append(result.Explanation,
				fmt.Sprintf("%s: '%s' -> Immediate Rejection", choice.Variable, choice.Response))
			slog.Debug("Hard rejection", "variable", choice.Variable, "response", choice.Response, "rule", r.String())
			break
		}

		points, known := e.index.Lookup(choice.Variable, choice.Response)
		if !known {
			result.Explanation = append(result.Explanation,
				fmt.Sprintf("%s: '%s' -> 0 points (Unknown or unselected)", choice.Variable, choice.Response))
			continue
		}
		result.TotalScore += points
		result.Explanation = append(result.Explanation,
			fmt.Sprintf("%s: '%s' -> %s points", choice.Variable, choice.Response, formatPoints(points)))
	}

	maxScore, err := e.index.MaxPossible()
	if err != nil {
		return nil, err
	}
	minScore, err := e.index.MinPossible()
	if err != nil {
		return nil, err
	}
	result.MaxScore = maxScore
	result.MinScore = minScore

	if result.HardRejected() {
		result.NormalizedScore = 0
		result.RiskOfDefault = 100
		result.ProbabilityOfDefault = 1
		return result, nil
	}

	if maxScore == minScore {
		return nil, &DegenerateRangeError{Score: maxScore}
	}

	normalized := (result.TotalScore - minScore) / (maxScore - minScore) * 100
	result.NormalizedScore = normalized
	if e.policy.Accepts(normalized) {
		result.Decision = Accepted
	} else {
		result.Decision = Rejected
	}
	result.RiskOfDefault = 100 - normalized
	result.ProbabilityOfDefault = e.policy.ProbabilityOfDefault(normalized)
	result.Explanation = append(result.Explanation, fmt.Sprintf(
		"Final Normalized Score: %.2f%% -> Decision: %s, Risk of Default: %.2f%%, Probability of Default: %.4f",
		normalized, result.Decision, result.RiskOfDefault, result.ProbabilityOfDefault))

	return result, nil
}

// formatPoints prints scorecard points without trailing zeros: 10, -2.5, 0.125.
func formatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}
