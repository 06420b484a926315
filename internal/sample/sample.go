// Package sample turns raw PageSpeed reports into ordered metric
// readings.
package sample

import "strconv"

// Value is a single metric value: either a plain number (the category
// score) or a display string that may carry a trailing unit suffix.
type Value struct {
	Num     float64
	Text    string
	Numeric bool
}

// Number wraps a plain numeric value.
func Number(n float64) Value { return Value{Num: n, Numeric: true} }

// Text wraps a display string value.
func Text(s string) Value { return Value{Text: s} }

// String renders the value the way it should be displayed.
func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}

	return v.Text
}

// Reading is one labeled metric within a sample. Labels are unique
// within a sample.
type Reading struct {
	Label string
	Value Value
}

// Sample holds the readings extracted from one accepted measurement
// run. Order is significant: the first reading is always the overall
// performance score.
type Sample []Reading
