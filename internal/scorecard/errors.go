package scorecard

import "fmt"

// LoadError is returned when a scorecard row cannot be turned into a
// (variable, class, score) triple. Row is 1-based; zero means the row number is unknown.
type LoadError struct {
	Row     int
	Field   string
	message string
}

// Error returns the text description of the error.
func (le *LoadError) Error() string {
	if le.Row > 0 {
		return fmt.Sprintf("scorecard row %d: %s: %s", le.Row, le.Field, le.message)
	}
	return fmt.Sprintf("scorecard: %s: %s", le.Field, le.message)
}

// NewLoadError creates a LoadError for the given row and field.
func NewLoadError(row int, field, message string) *LoadError {
	return &LoadError{Row: row, Field: field, message: message}
}

// EmptyIndexError is returned when the theoretical score range is requested
// from an index that holds no variables.
type EmptyIndexError struct{}

func (*EmptyIndexError) Error() string {
	return "scorecard index has no variables"
}
