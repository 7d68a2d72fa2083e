// Package calc computes the number of bags on a pallet from its row count
// and the extra bags placed on top.
//
// Rows at odd positions (1, 3, 5, ...) hold 10 bags, rows at even positions
// hold 9. The extra bags are added to the row subtotal.
package calc

import (
	"errors"
	"fmt"
)

const (
	OddRowBags  = 10
	EvenRowBags = 9

	// MaxLines and MaxBags cap any configured range.
	MaxLines = 17
	MaxBags  = 100
)

// ErrOutOfRange is returned when an input falls outside its configured range.
var ErrOutOfRange = errors.New("value out of range")

// RangeError describes which field was rejected and why.
type RangeError struct {
	Field Field
	Value int
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%d: %v (allowed %s)", e.Field, e.Value, ErrOutOfRange, e.Range)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Result is the full breakdown of one calculation.
// Total always equals OddSubtotal + EvenSubtotal + Bags.
type Result struct {
	Lines        int `json:"lines"`
	Bags         int `json:"bags"`
	OddRows      int `json:"odd_rows"`
	EvenRows     int `json:"even_rows"`
	OddSubtotal  int `json:"odd_subtotal"`
	EvenSubtotal int `json:"even_subtotal"`
	Total        int `json:"total"`
}

// RowSubtotal is the number of bags held by the rows alone.
func (r Result) RowSubtotal() int { return r.OddSubtotal + r.EvenSubtotal }

// Breakdown applies the formula without checking ranges.
func Breakdown(lines, bags int) Result {
	odd := (lines + 1) / 2
	even := lines / 2
	res := Result{
		Lines:        lines,
		Bags:         bags,
		OddRows:      odd,
		EvenRows:     even,
		OddSubtotal:  odd * OddRowBags,
		EvenSubtotal: even * EvenRowBags,
	}
	res.Total = res.OddSubtotal + res.EvenSubtotal + bags
	return res
}

// Calculator checks inputs against its limits before applying the formula.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	limits Limits
}

// New returns a Calculator enforcing limits, narrowed to [1, MaxLines] rows
// and [1, MaxBags] extra bags.
func New(limits Limits) *Calculator {
	limits.Lines = limits.Lines.clamp(1, MaxLines)
	limits.Bags = limits.Bags.clamp(1, MaxBags)
	return &Calculator{limits: limits}
}

// Limits returns the ranges the calculator enforces.
func (c *Calculator) Limits() Limits { return c.limits }

// Accept parses raw user text for the given field.
func (c *Calculator) Accept(f Field, raw string) (int, bool) {
	return c.limits.For(f).Parse(raw)
}

// Calculate returns the breakdown for lines and bags, or a *RangeError when
// either value is outside its range. The Result is zero on error.
func (c *Calculator) Calculate(lines, bags int) (Result, error) {
	if !c.limits.Lines.Contains(lines) {
		return Result{}, &RangeError{Field: FieldLines, Value: lines, Range: c.limits.Lines}
	}
	if !c.limits.Bags.Contains(bags) {
		return Result{}, &RangeError{Field: FieldBags, Value: bags, Range: c.limits.Bags}
	}
	return Breakdown(lines, bags), nil
}

var defaultCalculator = New(DefaultLimits())

// Calculate uses DefaultLimits.
func Calculate(lines, bags int) (Result, error) {
	return defaultCalculator.Calculate(lines, bags)
}
