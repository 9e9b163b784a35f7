package scorecard

import (
	"log/slog"
	"math"
	"strings"
)

// Row is a single scorecard entry: the points awarded when Variable takes the value Class.
type Row struct {
	Variable string  `yaml:"variable" json:"variable"`
	Class    string  `yaml:"class" json:"class"`
	Score    float64 `yaml:"score" json:"score"`
}

// Table is the ordered list of rows a model artifact yields.
type Table []Row

// Index maps a variable to the points of each of its classes.
// It is built once and never mutated afterwards, so it is safe for concurrent readers.
type Index struct {
	// variables keeps the first-seen order of variables in the source table.
	variables []string
	classes   map[string]map[string]float64
}

// Build constructs an Index from the rows of a scorecard table.
//
// Rows are applied in order. A repeated (variable, class) pair overwrites the earlier
// score; every overwrite is logged with the previous and the new value.
// A row with an empty variable or class, or a score that is not a finite number,
// fails the whole build with a LoadError.
func Build(rows Table) (*Index, error) {
	idx := &Index{
		variables: make([]string, 0),
		classes:   make(map[string]map[string]float64),
	}

	for i, row := range rows {
		if strings.TrimSpace(row.Variable) == "" {
			return nil, NewLoadError(i+1, "variable", "must not be empty")
		}
		if strings.TrimSpace(row.Class) == "" {
			return nil, NewLoadError(i+1, "class", "must not be empty")
		}
		if math.IsNaN(row.Score) || math.IsInf(row.Score, 0) {
			return nil, NewLoadError(i+1, "score", "must be a finite number")
		}

		scores, found := idx.classes[row.Variable]
		if !found {
			scores = make(map[string]float64)
			idx.classes[row.Variable] = scores
			idx.variables = append(idx.variables, row.Variable)
		}
		if previous, dup := scores[row.Class]; dup {
			slog.Warn("Duplicate scorecard class, keeping last",
				"row", i+1, "variable", row.Variable, "class", row.Class,
				"previous", previous, "score", row.Score)
		}
		scores[row.Class] = row.Score
	}

	return idx, nil
}

// Lookup returns the points of class within variable.
// Unknown variables and unknown classes are reported the same way: (0, false).
func (idx *Index) Lookup(variable, class string) (float64, bool) {
	scores, found := idx.classes[variable]
	if !found {
		return 0, false
	}
	score, found := scores[class]
	return score, found
}

// Len returns the number of variables in the index.
func (idx *Index) Len() int {
	return len(idx.variables)
}

// Variables returns the variable names in the order they first appeared in the table.
func (idx *Index) Variables() []string {
	out := make([]string, len(idx.variables))
	copy(out, idx.variables)
	return out
}

// Classes returns a copy of the class scores of variable, or nil if it is unknown.
func (idx *Index) Classes(variable string) map[string]float64 {
	scores, found := idx.classes[variable]
	if !found {
		return nil
	}
	out := make(map[string]float64, len(scores))
	for class, score := range scores {
		out[class] = score
	}
	return out
}

// Snapshot returns a deep copy of the whole index, keyed by variable then class.
func (idx *Index) Snapshot() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(idx.classes))
	for _, variable := range idx.variables {
		out[variable] = idx.Classes(variable)
	}
	return out
}

// MaxPossible sums the highest class score of every variable.
func (idx *Index) MaxPossible() (float64, error) {
	return idx.extreme(math.Max)
}

// MinPossible sums the lowest class score of every variable.
func (idx *Index) MinPossible() (float64, error) {
	return idx.extreme(math.Min)
}

func (idx *Index) extreme(pick func(a, b float64) float64) (float64, error) {
	if len(idx.variables) == 0 {
		return 0, &EmptyIndexError{}
	}

	var total float64
	for _, variable := range idx.variables {
		first := true
		var best float64
		for _, score := range idx.classes[variable] {
			if first {
				best, first = score, false
				continue
			}
			best = pick(best, score)
		}
		total += best
	}
	return total, nil
}
