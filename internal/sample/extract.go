package sample

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/irondsd/pagespeed/internal/pagespeed"
)

// PerformanceLabel is the synthesized label for the overall category
// score, always the first reading of a sample.
const PerformanceLabel = "Performance"

// metricsGroup tags the audit refs that represent the report's metric
// values.
const metricsGroup = "metrics"

var (
	// ErrNoLighthouseResult indicates the response carried no lighthouse report
	ErrNoLighthouseResult = errors.New("response has no lighthouse result")
	// ErrNoPerformanceScore indicates the performance category or its score is missing
	ErrNoPerformanceScore = errors.New("performance score missing from report")
	// ErrAuditNotFound indicates a referenced audit entry is absent from the report
	ErrAuditNotFound = errors.New("audit not found in report")
)

// Extract flattens one raw measurement result into a Sample. The
// overall performance score is prepended as ceil(score*100); every
// audit referenced by the performance category's metrics group follows
// in order, labeled with the audit title and valued with its display
// string stripped of all whitespace. A malformed report is a fatal
// error, never a partial sample.
func Extract(res *pagespeed.Result) (Sample, error) {
	lhr := res.LighthouseResult
	if lhr == nil {
		return nil, ErrNoLighthouseResult
	}

	perf := lhr.Categories.Performance
	if perf == nil || perf.Score == nil {
		return nil, ErrNoPerformanceScore
	}

	s := Sample{{
		Label: PerformanceLabel,
		Value: Number(math.Ceil(*perf.Score * 100)),
	}}

	for _, ref := range perf.AuditRefs {
		if ref.Group != metricsGroup {
			continue
		}

		audit, ok := lhr.Audits[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAuditNotFound, ref.ID)
		}

		s = append(s, Reading{
			Label: audit.Title,
			Value: Text(stripSpace(audit.DisplayValue)),
		})
	}

	return s, nil
}

// stripSpace removes every whitespace rune, so "1.2 s" and "1.2 s"
// both become "1.2s".
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
