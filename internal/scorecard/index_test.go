package scorecard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		{Variable: "A", Class: "x", Score: 10},
		{Variable: "A", Class: "y", Score: 20},
		{Variable: "B", Class: "p", Score: 5},
		{Variable: "B", Class: "q", Score: 15},
	}
}

func TestBuild_GroupsByVariable(t *testing.T) {
	idx, err := Build(sampleTable())
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"A", "B"}, idx.Variables())
	assert.Equal(t, map[string]float64{"x": 10, "y": 20}, idx.Classes("A"))
	assert.Equal(t, map[string]map[string]float64{
		"A": {"x": 10, "y": 20},
		"B": {"p": 5, "q": 15},
	}, idx.Snapshot())
}

func TestBuild_DuplicateClassLastWins(t *testing.T) {
	idx, err := Build(Table{
		{Variable: "A", Class: "x", Score: 10},
		{Variable: "A", Class: "x", Score: 3},
	})
	require.NoError(t, err)

	score, ok := idx.Lookup("A", "x")
	assert.True(t, ok)
	assert.Equal(t, 3.0, score)
}

func TestBuild_SameClassAcrossVariables(t *testing.T) {
	idx, err := Build(Table{
		{Variable: "A", Class: "low", Score: 1},
		{Variable: "B", Class: "low", Score: 7},
	})
	require.NoError(t, err)

	a, _ := idx.Lookup("A", "low")
	b, _ := idx.Lookup("B", "low")
	assert.Equal(t, 1.0, a)
	assert.Equal(t, 7.0, b)
}

func TestBuild_MalformedRows(t *testing.T) {
	cases := []struct {
		name  string
		row   Row
		field string
	}{
		{"empty variable", Row{Variable: " ", Class: "x", Score: 1}, "variable"},
		{"empty class", Row{Variable: "A", Class: "", Score: 1}, "class"},
		{"nan score", Row{Variable: "A", Class: "x", Score: math.NaN()}, "score"},
		{"inf score", Row{Variable: "A", Class: "x", Score: math.Inf(1)}, "score"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(Table{{Variable: "B", Class: "p", Score: 1}, tc.row})
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, 2, loadErr.Row)
			assert.Equal(t, tc.field, loadErr.Field)
		})
	}
}

func TestIndex_Lookup_Unknown(t *testing.T) {
	idx, err := Build(sampleTable())
	require.NoError(t, err)

	_, ok := idx.Lookup("A", "z")
	assert.False(t, ok, "unknown class")
	_, ok = idx.Lookup("missing", "x")
	assert.False(t, ok, "unknown variable")
	assert.Nil(t, idx.Classes("missing"))
}

func TestIndex_Range(t *testing.T) {
	idx, err := Build(sampleTable())
	require.NoError(t, err)

	maxScore, err := idx.MaxPossible()
	require.NoError(t, err)
	minScore, err := idx.MinPossible()
	require.NoError(t, err)

	assert.Equal(t, 35.0, maxScore)
	assert.Equal(t, 15.0, minScore)
}

func TestIndex_Range_NegativeScores(t *testing.T) {
	idx, err := Build(Table{
		{Variable: "A", Class: "x", Score: -12.5},
		{Variable: "A", Class: "y", Score: 4},
		{Variable: "B", Class: "only", Score: -1},
	})
	require.NoError(t, err)

	maxScore, _ := idx.MaxPossible()
	minScore, _ := idx.MinPossible()
	assert.Equal(t, 3.0, maxScore)
	assert.Equal(t, -13.5, minScore)
}

func TestIndex_Range_Empty(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)

	_, err = idx.MaxPossible()
	var emptyErr *EmptyIndexError
	assert.ErrorAs(t, err, &emptyErr)

	_, err = idx.MinPossible()
	assert.ErrorAs(t, err, &emptyErr)
}

func TestIndex_SnapshotIsCopy(t *testing.T) {
	idx, err := Build(sampleTable())
	require.NoError(t, err)

	snap := idx.Snapshot()
	snap["A"]["x"] = 999

	score, _ := idx.Lookup("A", "x")
	assert.Equal(t, 10.0, score)
}
