package rule

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Set is an ordered rule table. Rules are tried in declaration order.
type Set []Rule

// Defaults returns the built-in rejection table of the credit scorecard.
func Defaults() Set {
	return Set{
		{Variable: "CRIB_SCORE_slabs", Response: "below 0", Reason: "negative bureau score"},
		{Variable: "TOTAL_INCOME_cluster", Response: "<40000", Reason: "income below minimum"},
		{Variable: "CUSTOMER AGE_cluster", Response: "70+", Reason: "age above maximum"},
	}
}

// Match returns the first rule triggered by the (variable, response) pair.
// Rules whose condition fails at runtime are logged and skipped.
func (s Set) Match(variable, response string) (*Rule, bool) {
	for i := range s {
		matched, err := s[i].Matches(variable, response)
		if err != nil {
			slog.Error("rule eval", "error", err, "rule", s[i].String(), "variable", variable)
			continue
		}
		if matched {
			return &s[i], true
		}
	}
	return nil, false
}

// Parse reads a YAML list of rules and initializes each of them:
//
//   - variable: CRIB_SCORE_slabs
//     response: below 0
//     reason: negative bureau score
//   - when: variable == "EMPLOYMENT_cluster" && response.startsWith("unemployed")
//     reason: no income source
//
// An empty document yields an empty table.
func Parse(content []byte) (Set, error) {
	rules := Set{}
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, err
	}

	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
	}
	return rules, nil
}

// Load reads and parses the rule table stored in file.
func Load(file string) (Set, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}
