package score

import "fmt"

// DegenerateRangeError is returned when every variable's classes add up to the same
// theoretical minimum and maximum, leaving nothing to normalize against.
type DegenerateRangeError struct {
	Score float64
}

func (dr *DegenerateRangeError) Error() string {
	return fmt.Sprintf("degenerate score range: max and min possible scores are both %g", dr.Score)
}
