package calc

import (
	"fmt"
	"strconv"
)

// Field identifies one of the two values collected from the user.
type Field string

const (
	FieldLines Field = "lines"
	FieldBags  Field = "bags"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool { return r.Min <= n && n <= r.Max }

// Parse decodes a base-10 integer and checks it against the range.
// Callers trim surrounding whitespace themselves.
func (r Range) Parse(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	if !r.Contains(n) {
		return 0, false
	}
	return n, true
}

// clamp narrows r to lie within [lo, hi]. A range wholly outside collapses
// to an empty one (Min > Max) that contains nothing.
func (r Range) clamp(lo, hi int) Range {
	if r.Min < lo {
		r.Min = lo
	}
	if r.Max > hi {
		r.Max = hi
	}
	return r
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Min, r.Max) }

// IsValid returns true iff value parses as an integer within [min, max].
// Parse failures (empty, non-numeric, overflow) yield false.
func IsValid(value string, min, max int) bool {
	_, ok := Range{Min: min, Max: max}.Parse(value)
	return ok
}

// Limits holds the accepted range for each field.
type Limits struct {
	Lines Range `json:"lines"`
	Bags  Range `json:"bags"`
}

// DefaultLimits: 1-17 rows, 1-10 extra bags.
func DefaultLimits() Limits {
	return Limits{
		Lines: Range{Min: 1, Max: 17},
		Bags:  Range{Min: 1, Max: 10},
	}
}

// For returns the range of the given field.
func (l Limits) For(f Field) Range {
	if f == FieldBags {
		return l.Bags
	}
	return l.Lines
}
