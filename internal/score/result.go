package score

import "scorecard/internal/score/rule"

// Decision is the outcome of an evaluation.
type Decision string

const (
	Accepted Decision = "Accepted"
	Rejected Decision = "Rejected"
)

// Result is the outcome of scoring one selection.
type Result struct {
	NormalizedScore      float64  `json:"normalizedScore"`
	Decision             Decision `json:"decision"`
	RiskOfDefault        float64  `json:"riskOfDefault"`
	ProbabilityOfDefault float64  `json:"probabilityOfDefault"`
	Explanation          []string `json:"explanation"`
	MaxScore             float64  `json:"maxScore"`
	MinScore             float64  `json:"minScore"`

	// TotalScore is the raw sum of points before normalization.
	TotalScore float64 `json:"-"`
	// RejectedBy names the variable that triggered a hard rejection. It may be empty
	// even on a rejection, since the empty string is a valid JSON key.
	RejectedBy string `json:"-"`
	// Rule is the rejection rule that ended the evaluation, nil otherwise.
	Rule *rule.Rule `json:"-"`
}

// HardRejected reports whether a rejection rule ended the evaluation.
func (r *Result) HardRejected() bool {
	return r.Rule != nil
}
