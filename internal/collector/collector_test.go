package collector

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irondsd/pagespeed/internal/pagespeed"
	"github.com/irondsd/pagespeed/internal/sample"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	return log
}

// fakeProvider replays scripted results and fails with err once they
// are exhausted.
type fakeProvider struct {
	results []*pagespeed.Result
	err     error
	calls   int
}

func (p *fakeProvider) Run(_, _ string) (*pagespeed.Result, error) {
	p.calls++
	if p.calls <= len(p.results) {
		return p.results[p.calls-1], nil
	}
	if p.err != nil {
		return nil, p.err
	}

	return nil, errors.New("fakeProvider: no more scripted results")
}

// fakeClock records sleeps and advances a synthetic wall clock by their
// duration.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func testResult(ts string, score float64) *pagespeed.Result {
	return &pagespeed.Result{
		AnalysisUTCTimestamp: ts,
		LighthouseResult: &pagespeed.LighthouseResult{
			Categories: pagespeed.Categories{
				Performance: &pagespeed.Category{Score: &score},
			},
		},
	}
}

type progressRecorder struct {
	calls [][2]int
}

func (r *progressRecorder) record(accepted, target int) {
	r.calls = append(r.calls, [2]int{accepted, target})
}

func TestCollect_ReturnsRequestedCount(t *testing.T) {
	provider := &fakeProvider{results: []*pagespeed.Result{
		testResult("t1", 0.8),
		testResult("t2", 0.85),
		testResult("t3", 0.9),
	}}
	clock := &fakeClock{now: time.Unix(0, 0)}
	progress := &progressRecorder{}

	c := New(provider, newTestLogger(),
		WithClock(clock),
		WithProgress(progress.record),
	)

	result, err := c.Collect("https://example.com", "mobile", 3)
	require.NoError(t, err)

	assert.Len(t, result.Samples, 3)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 3, provider.calls)

	// Progress fires once per accepted sample.
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress.calls)

	// Pacing runs strictly between requests: twice for three samples.
	assert.Equal(t, []time.Duration{DefaultInterval, DefaultInterval}, clock.sleeps)
	assert.Equal(t, 2*DefaultInterval, result.Elapsed)
}

func TestCollect_SkipsDuplicateTimestampsWithoutPacing(t *testing.T) {
	provider := &fakeProvider{results: []*pagespeed.Result{
		testResult("t1", 0.8),
		testResult("t1", 0.8),
		testResult("t2", 0.9),
	}}
	clock := &fakeClock{now: time.Unix(0, 0)}

	c := New(provider, newTestLogger(), WithClock(clock))

	result, err := c.Collect("https://example.com", "mobile", 2)
	require.NoError(t, err)

	assert.Len(t, result.Samples, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3, provider.calls)

	// Only the first accepted sample pauses the loop; the duplicate is
	// retried immediately.
	assert.Equal(t, []time.Duration{DefaultInterval}, clock.sleeps)
}

func TestCollect_SingleSampleNeverPaces(t *testing.T) {
	provider := &fakeProvider{results: []*pagespeed.Result{testResult("t1", 0.8)}}
	clock := &fakeClock{now: time.Unix(0, 0)}

	c := New(provider, newTestLogger(), WithClock(clock))

	result, err := c.Collect("https://example.com", "mobile", 1)
	require.NoError(t, err)

	assert.Len(t, result.Samples, 1)
	assert.Empty(t, clock.sleeps)
}

func TestCollect_NonPositiveTargetSkipsProvider(t *testing.T) {
	for _, target := range []int{0, -1} {
		provider := &fakeProvider{}

		c := New(provider, newTestLogger(), WithClock(&fakeClock{}))

		result, err := c.Collect("https://example.com", "mobile", target)
		require.NoError(t, err)

		assert.Empty(t, result.Samples)
		assert.Equal(t, 0, result.Skipped)
		assert.Equal(t, 0, provider.calls)
	}
}

func TestCollect_ProviderErrorAborts(t *testing.T) {
	errBoom := errors.New("boom")
	provider := &fakeProvider{err: errBoom}

	c := New(provider, newTestLogger(), WithClock(&fakeClock{}))

	result, err := c.Collect("https://example.com", "mobile", 2)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, provider.calls)
}

func TestCollect_ExtractionErrorAborts(t *testing.T) {
	provider := &fakeProvider{results: []*pagespeed.Result{
		{AnalysisUTCTimestamp: "t1"}, // no lighthouse result
	}}

	c := New(provider, newTestLogger(), WithClock(&fakeClock{}))

	result, err := c.Collect("https://example.com", "mobile", 1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, sample.ErrNoLighthouseResult)
}

func TestCollect_CustomInterval(t *testing.T) {
	provider := &fakeProvider{results: []*pagespeed.Result{
		testResult("t1", 0.8),
		testResult("t2", 0.9),
	}}
	clock := &fakeClock{now: time.Unix(0, 0)}

	c := New(provider, newTestLogger(),
		WithClock(clock),
		WithInterval(250*time.Millisecond),
	)

	_, err := c.Collect("https://example.com", "desktop", 2)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, clock.sleeps)
}
