// Package aggregate reduces collected samples into per-metric
// statistics, preserving each metric's unit suffix.
package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/irondsd/pagespeed/internal/sample"
)

// Unit is the unit suffix attached to a metric's values. It is decided
// once per label from the first sample and fixed for the whole run.
type Unit int

const (
	// UnitNone marks plain numeric metrics.
	UnitNone Unit = iota
	// UnitMilliseconds marks values suffixed with "ms".
	UnitMilliseconds
	// UnitSeconds marks values suffixed with "s".
	UnitSeconds
)

// Suffix returns the textual suffix appended to rendered values.
func (u Unit) Suffix() string {
	switch u {
	case UnitMilliseconds:
		return "ms"
	case UnitSeconds:
		return "s"
	default:
		return ""
	}
}

var (
	// ErrNoSamples indicates there was nothing to aggregate
	ErrNoSamples = errors.New("no samples to aggregate")
	// ErrLabelMismatch indicates a sample does not share the first sample's label set
	ErrLabelMismatch = errors.New("sample label mismatch")
)

// Stat holds a metric's aggregated values. Min and Max are only
// meaningful when HasRange is set, which requires more than one sample.
type Stat struct {
	Unit     Unit
	Avg      float64
	Min      float64
	Max      float64
	HasRange bool
}

func (s Stat) render(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + s.Unit.Suffix()
}

// AvgString renders the average in the metric's unit.
func (s Stat) AvgString() string { return s.render(s.Avg) }

// MinString renders the minimum in the metric's unit.
func (s Stat) MinString() string { return s.render(s.Min) }

// MaxString renders the maximum in the metric's unit.
func (s Stat) MaxString() string { return s.render(s.Max) }

// Report maps metric labels to their aggregated stats, preserving the
// label order of the first sample.
type Report struct {
	Labels []string
	Stats  map[string]Stat
}

// Samples aggregates a non-empty set of samples. All samples must share
// the ordered label set of the first one, which the collector
// guarantees for accepted runs.
func Samples(samples []sample.Sample) (*Report, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	ref := samples[0]
	rep := &Report{
		Labels: make([]string, 0, len(ref)),
		Stats:  make(map[string]Stat, len(ref)),
	}

	for i, reading := range ref {
		unit := unitOf(reading.Value)

		values := make([]float64, 0, len(samples))
		for _, s := range samples {
			if i >= len(s) || s[i].Label != reading.Label {
				return nil, fmt.Errorf("%w: %s", ErrLabelMismatch, reading.Label)
			}

			n, err := numeric(s[i].Value, unit)
			if err != nil {
				return nil, fmt.Errorf("metric %q: %w", reading.Label, err)
			}
			values = append(values, n)
		}

		stat, err := summarize(values, unit)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", reading.Label, err)
		}

		rep.Labels = append(rep.Labels, reading.Label)
		rep.Stats[reading.Label] = stat
	}

	return rep, nil
}

func summarize(values []float64, unit Unit) (Stat, error) {
	stat := Stat{Unit: unit}

	mean, err := stats.Mean(values)
	if err != nil {
		return stat, fmt.Errorf("calculating mean: %w", err)
	}
	if stat.Avg, err = stats.Round(mean, 2); err != nil {
		return stat, fmt.Errorf("rounding mean: %w", err)
	}

	// With a single sample there is nothing to compare, so min and max
	// are omitted.
	if len(values) < 2 {
		return stat, nil
	}

	if stat.Min, err = stats.Min(values); err != nil {
		return stat, fmt.Errorf("calculating min: %w", err)
	}
	if stat.Max, err = stats.Max(values); err != nil {
		return stat, fmt.Errorf("calculating max: %w", err)
	}
	stat.HasRange = true

	return stat, nil
}

// unitOf derives a metric's unit from its reference value. Numeric
// values and strings without a recognized suffix are unsuffixed.
func unitOf(v sample.Value) Unit {
	if v.Numeric {
		return UnitNone
	}

	switch {
	case strings.HasSuffix(v.Text, "ms"):
		return UnitMilliseconds
	case strings.HasSuffix(v.Text, "s"):
		return UnitSeconds
	default:
		return UnitNone
	}
}

// numeric parses a value into its underlying quantity, stripping the
// unit suffix and thousands separators.
func numeric(v sample.Value, unit Unit) (float64, error) {
	if v.Numeric {
		return v.Num, nil
	}

	raw := strings.TrimSuffix(v.Text, unit.Suffix())
	raw = strings.ReplaceAll(raw, ",", "")

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse value %q: %w", v.Text, err)
	}

	return n, nil
}
