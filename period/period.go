// CLAUDE:SUMMARY Fixed-width half-open historical periods: year -> period start, Unknown for missing years.
// Package period maps years to fixed-width historical periods.
//
// Periods partition the year axis into consecutive half-open intervals
// [Anchor + k*Width, Anchor + (k+1)*Width). A year equal to a period start
// belongs to that period. The anchor is configuration, never inferred from
// data, so boundaries stay stable when the corpus grows.
package period

import (
	"fmt"
	"strconv"
)

const (
	// DefaultWidth is the width of a period in years.
	DefaultWidth = 50
	// DefaultAnchor is the start year of the reference period. Any year
	// congruent to it modulo the width yields the same partition.
	DefaultAnchor = 1500
)

// Period is identified by its start year.
type Period int

// Label is the canonical label of the period, its start year in decimal.
func (p Period) Label() string {
	return strconv.Itoa(int(p))
}

func (p Period) String() string {
	return p.Label()
}

// Assigner computes the period of a year.
type Assigner struct {
	Width  int `yaml:"width" json:"width"`
	Anchor int `yaml:"anchor" json:"anchor"`
}

// New returns an Assigner, rejecting a non-positive width.
func New(width, anchor int) (Assigner, error) {
	a := Assigner{Width: width, Anchor: anchor}
	if err := a.Validate(); err != nil {
		return Assigner{}, err
	}
	return a, nil
}

// Validate reports whether the assigner can bucket years.
func (a Assigner) Validate() error {
	if a.Width <= 0 {
		return fmt.Errorf("period: width must be positive, got %d", a.Width)
	}
	return nil
}

// Of returns the period containing year.
func (a Assigner) Of(year int) Period {
	return Period(floorDiv(year-a.Anchor, a.Width)*a.Width + a.Anchor)
}

// Lookup returns the period of year, or false when the year is unknown.
func (a Assigner) Lookup(year *int) (Period, bool) {
	if year == nil {
		return 0, false
	}
	return a.Of(*year), true
}

// Contains reports whether year falls inside p.
func (a Assigner) Contains(p Period, year int) bool {
	return year >= int(p) && year < a.End(p)
}

// End returns the first year after p.
func (a Assigner) End(p Period) int {
	return int(p) + a.Width
}

// floorDiv divides rounding toward negative infinity, so years before the
// anchor land in the period that starts before them.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
