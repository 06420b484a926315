// Package collector drives repeated PageSpeed measurements and
// accumulates the accepted samples.
package collector

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irondsd/pagespeed/internal/pagespeed"
	"github.com/irondsd/pagespeed/internal/sample"
)

// DefaultInterval is the pacing delay between accepted measurement
// requests.
const DefaultInterval = time.Second

// Provider produces one raw measurement per call.
type Provider interface {
	Run(url, strategy string) (*pagespeed.Result, error)
}

// Progress is invoked after every accepted sample with the accepted
// count so far and the requested total.
type Progress func(accepted, target int)

// Clock abstracts time for the collection loop so tests can observe
// pacing without real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealtimeClock is the production Clock.
type RealtimeClock struct{}

// Now returns the wall-clock time.
func (RealtimeClock) Now() time.Time { return time.Now() }

// Sleep suspends the calling goroutine for d.
func (RealtimeClock) Sleep(d time.Duration) { time.Sleep(d) }

// Result is the outcome of one collection run.
type Result struct {
	Samples []sample.Sample
	Elapsed time.Duration
	Skipped int
}

// Collector polls a provider sequentially until the requested number of
// distinct measurement runs has been accepted. Responses sharing an
// analysis timestamp with an earlier one are skipped and do not count
// toward the target.
type Collector struct {
	provider Provider
	interval time.Duration
	progress Progress
	clock    Clock
	log      logrus.FieldLogger
}

// Option customizes a Collector.
type Option func(*Collector)

// WithInterval overrides the pacing delay between accepted samples.
func WithInterval(d time.Duration) Option {
	return func(c *Collector) { c.interval = d }
}

// WithProgress registers a callback fired after each accepted sample.
func WithProgress(p Progress) Option {
	return func(c *Collector) { c.progress = p }
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Collector) { c.clock = clock }
}

// New creates a collector around the given provider.
func New(provider Provider, log logrus.FieldLogger, opts ...Option) *Collector {
	c := &Collector{
		provider: provider,
		interval: DefaultInterval,
		progress: func(int, int) {},
		clock:    RealtimeClock{},
		log:      log.WithField("component", "collector"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect gathers target accepted samples for url using the given
// strategy. Any provider or extraction failure aborts the run with no
// retry. A target of zero or less returns an empty result without
// touching the provider. The pacing delay runs only between requests,
// never before the first one, after the last one, or after a skipped
// duplicate.
func (c *Collector) Collect(url, strategy string, target int) (*Result, error) {
	start := c.clock.Now()
	seen := make(map[string]struct{})
	accepted := make([]sample.Sample, 0, max(target, 0))
	skipped := 0

	for len(accepted) < target {
		res, err := c.provider.Run(url, strategy)
		if err != nil {
			return nil, fmt.Errorf("measurement %d of %d failed: %w", len(accepted)+1, target, err)
		}

		ts := res.AnalysisUTCTimestamp
		if _, dup := seen[ts]; dup {
			skipped++
			c.log.WithField("timestamp", ts).Debug("Duplicate measurement run, skipping")
			continue
		}
		seen[ts] = struct{}{}

		s, err := sample.Extract(res)
		if err != nil {
			return nil, fmt.Errorf("failed to extract sample: %w", err)
		}

		accepted = append(accepted, s)
		c.progress(len(accepted), target)

		if len(accepted) < target {
			c.clock.Sleep(c.interval)
		}
	}

	return &Result{
		Samples: accepted,
		Elapsed: c.clock.Now().Sub(start),
		Skipped: skipped,
	}, nil
}
