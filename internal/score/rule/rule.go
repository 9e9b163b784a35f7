package rule

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule is a hard-rejection rule. A selected (variable, response) pair that matches the rule
// rejects the application immediately, whatever points were accumulated.
//
// Variable and Response are exact-match filters; an empty filter matches anything.
// When is an optional CEL expression over the string variables `variable` and `response`
// which must also evaluate to true. A rule needs at least Variable or When.
type Rule struct {
	Variable string `yaml:"variable"`
	Response string `yaml:"response"`
	// Reason is a human-readable label used in logs and metrics.
	Reason string `yaml:"reason"`
	When   string `yaml:"when"`

	program cel.Program
}

// NewEnv returns the CEL environment rule conditions are compiled against.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("variable", cel.StringType),
		cel.Variable("response", cel.StringType),
	)
}

// Init validates the rule and compiles its When expression, if any, using env.
// The expression must type-check to a boolean.
func (r *Rule) Init(env *cel.Env) error {
	if r.Variable == "" && r.When == "" {
		return errors.New("rule: variable or when must be specified")
	}
	if r.When == "" {
		return nil
	}

	ast, iss := env.Compile(r.When)
	if iss.Err() != nil {
		return fmt.Errorf("rule %q: %w", r.When, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q: condition must be boolean, got %s", r.When, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.When, err)
	}
	r.program = program

	return nil
}

// Matches reports whether the selected response for variable triggers the rule.
// An error is returned only when the compiled condition fails at runtime
// or when the rule has a condition but was never initialized.
func (r *Rule) Matches(variable, response string) (bool, error) {
	if r.Variable != "" && r.Variable != variable {
		return false, nil
	}
	if r.Response != "" && r.Response != response {
		return false, nil
	}
	if r.When == "" {
		return true, nil
	}
	if r.program == nil {
		return false, fmt.Errorf("rule %q: not initialized", r.When)
	}

	result, _, err := r.program.Eval(map[string]any{
		"variable": variable,
		"response": response,
	})
	if err != nil {
		return false, err
	}

	matched, ok := result.Value().(bool)
	return ok && matched, nil
}

// String returns the reason when set, otherwise a description of the match.
func (r *Rule) String() string {
	if r.Reason != "" {
		return r.Reason
	}
	if r.When != "" {
		return r.When
	}
	return fmt.Sprintf("%s == %q", r.Variable, r.Response)
}
