package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Init_RequiresVariableOrWhen(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	r := &Rule{Response: "70+"}
	assert.Error(t, r.Init(env))
}

func TestRule_Init_ParseError(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	r := &Rule{When: "response == "}
	assert.Error(t, r.Init(env), "expected parse error for invalid expression")
}

func TestRule_Init_CheckError(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	r := &Rule{When: "income > 10"}
	assert.Error(t, r.Init(env), "expected check error for undeclared variable")
}

func TestRule_Init_NonBoolean(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	r := &Rule{When: "response + variable"}
	assert.ErrorContains(t, r.Init(env), "must be boolean")
}

func TestRule_Matches_Exact(t *testing.T) {
	r := Rule{Variable: "CUSTOMER AGE_cluster", Response: "70+"}

	matched, err := r.Matches("CUSTOMER AGE_cluster", "70+")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, _ = r.Matches("CUSTOMER AGE_cluster", "60-70")
	assert.False(t, matched, "different response")

	matched, _ = r.Matches("AGE", "70+")
	assert.False(t, matched, "different variable")

	matched, _ = r.Matches("CUSTOMER AGE_cluster", "70+ ")
	assert.False(t, matched, "match is exact, not trimmed")
}

func TestRule_Matches_Condition(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	r := &Rule{
		Variable: "EMPLOYMENT_cluster",
		When:     `response.startsWith("unemployed")`,
	}
	require.NoError(t, r.Init(env))

	matched, err := r.Matches("EMPLOYMENT_cluster", "unemployed > 1y")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = r.Matches("EMPLOYMENT_cluster", "salaried")
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = r.Matches("OTHER", "unemployed")
	require.NoError(t, err)
	assert.False(t, matched, "variable filter applies before the condition")
}

func TestRule_Matches_NotInitialized(t *testing.T) {
	r := Rule{When: `response == "x"`}

	matched, err := r.Matches("A", "x")
	assert.Error(t, err)
	assert.False(t, matched)
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "too old", (&Rule{Variable: "AGE", Response: "70+", Reason: "too old"}).String())
	assert.Equal(t, `AGE == "70+"`, (&Rule{Variable: "AGE", Response: "70+"}).String())
	assert.Equal(t, `response == "x"`, (&Rule{When: `response == "x"`}).String())
}
