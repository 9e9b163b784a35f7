package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorecard/internal/score"
	"scorecard/internal/score/rule"
	"scorecard/internal/scorecard"
)

// gathered returns the value of a counter or the sample count of a histogram
// whose labels contain all of the given pairs.
func gathered(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if want, found := labels[pair.GetName()]; found && want != pair.GetValue() {
					continue metrics
				}
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()

	r.Observe(&score.Result{Decision: score.Accepted, NormalizedScore: 75})
	r.Observe(&score.Result{Decision: score.Rejected, NormalizedScore: 12})
	r.Observe(&score.Result{Decision: score.Rejected, RejectedBy: "CRIB_SCORE_slabs", Rule: &rule.Rule{
		Variable: "CRIB_SCORE_slabs", Response: "below 0", Reason: "negative bureau score",
	}})

	assert.Equal(t, 1.0, gathered(t, r, "scorecard_evaluations_total", map[string]string{"decision": "Accepted"}))
	assert.Equal(t, 2.0, gathered(t, r, "scorecard_evaluations_total", map[string]string{"decision": "Rejected"}))
	assert.Equal(t, 1.0, gathered(t, r, "scorecard_hard_rejections_total", map[string]string{"rule": "negative bureau score"}))
	assert.Equal(t, 2.0, gathered(t, r, "scorecard_normalized_score", nil), "hard rejections are not normalized")
}

func TestRecorder_Observe_RuleLabelIgnoresClientVariable(t *testing.T) {
	r := NewRecorder()
	when := &rule.Rule{When: `response == "bad"`}

	for _, variable := range []string{"", "x1", "x2"} {
		r.Observe(&score.Result{Decision: score.Rejected, RejectedBy: variable, Rule: when})
	}

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == "scorecard_hard_rejections_total" {
			require.Len(t, family.GetMetric(), 1)
		}
	}
	assert.Equal(t, 3.0, gathered(t, r, "scorecard_hard_rejections_total", map[string]string{"rule": `response == "bad"`}))
}

func TestRecorder_Fail(t *testing.T) {
	r := NewRecorder()

	assert.Equal(t, KindEmptyIndex, r.Fail(&scorecard.EmptyIndexError{}))
	assert.Equal(t, KindDegenerateRange, r.Fail(fmt.Errorf("evaluate: %w", &score.DegenerateRangeError{Score: 3})))
	assert.Equal(t, KindInternal, r.Fail(errors.New("boom")))

	assert.Equal(t, 1.0, gathered(t, r, "scorecard_evaluation_errors_total", map[string]string{"kind": KindDegenerateRange}))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.Observe(&score.Result{Decision: score.Accepted, NormalizedScore: 75})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scorecard_evaluations_total{decision="Accepted"} 1`)
}
