package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/service/metriccache"
	"BrandPulse/pkg/logger"
)

type fakeProvider struct {
	brands map[string]models.BrandConfig
	err    error
	calls  int
}

func (p *fakeProvider) Brands(ctx context.Context, bypassCache bool) (map[string]models.BrandConfig, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.brands, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events map[string]models.BrandStats
}

func (p *fakePublisher) Publish(ctx context.Context, brand string, stats models.BrandStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string]models.BrandStats)
	}
	p.events[brand] = stats
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func testTTLs() TTLs {
	return TTLs{Now: time.Minute, Today: time.Minute, Days30: time.Minute, Days365: time.Minute}
}

func newTestAggregator(t *testing.T, fa *fakeAnalytics, p *fakeProvider, pub *fakePublisher, opts AggregatorOptions) *Aggregator {
	t.Helper()
	store := metriccache.NewStore(nil)
	fetcher := NewMetricFetcher(fa, nil)
	if pub == nil {
		return NewAggregator(fetcher, store, p, nil, nil, testLogger(t), opts)
	}
	return NewAggregator(fetcher, store, p, pub, nil, testLogger(t), opts)
}

func twoBrands() *fakeProvider {
	return &fakeProvider{brands: map[string]models.BrandConfig{
		"acme": {Name: "Acme", PropertyID: "p-acme"},
		"beta": {Name: "Beta", PropertyID: "p-beta", Filter: &models.DimensionFilter{
			FieldName: "hostName", MatchType: models.MatchTypeExact, Value: "beta.example.com",
		}},
	}}
}

func scriptedAnalytics() *fakeAnalytics {
	return &fakeAnalytics{
		reports: map[string]*models.Report{
			"p-acme:today":      report("4800"),
			"p-acme:30daysAgo":  report("90000"),
			"p-acme:365daysAgo": report("1200000"),
			"p-beta:today":      report("960"),
			"p-beta:30daysAgo":  report("20000"),
			"p-beta:365daysAgo": report("250000"),
		},
		realtime: map[string]*models.Report{
			"p-acme": report("37"),
		},
	}
}

func TestSnapshotAggregatesAllBrands(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	got, err := agg.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acme := got["acme"]
	if acme.Now != 37 || acme.Today != 4800 || acme.Days30 != 90000 || acme.Days365 != 1200000 {
		t.Fatalf("unexpected acme stats %+v", acme)
	}

	// Filtered brand: now is estimated from today (960/48 = 20).
	beta := got["beta"]
	if beta.Now != 20 || beta.Today != 960 || beta.Days30 != 20000 || beta.Days365 != 250000 {
		t.Fatalf("unexpected beta stats %+v", beta)
	}
}

func TestSnapshotFilteredBrandNeverHitsRealtime(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	if _, err := agg.Snapshot(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, prop := range fa.realtimeCalls {
		if prop == "p-beta" {
			t.Fatalf("filtered brand must never be queried in realtime")
		}
	}
	if fa.realtimeCount() != 1 {
		t.Fatalf("expected 1 realtime call, got %d", fa.realtimeCount())
	}
}

func TestSnapshotServesFromCache(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	if _, err := agg.Snapshot(context.Background(), false); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	before := fa.reportCount() + fa.realtimeCount()

	if _, err := agg.Snapshot(context.Background(), false); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	after := fa.reportCount() + fa.realtimeCount()
	if before != after {
		t.Fatalf("second snapshot must be served from cache: %d -> %d upstream calls", before, after)
	}
}

func TestSnapshotBypassRefetchesEverything(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	if _, err := agg.Snapshot(context.Background(), false); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	before := fa.reportCount()

	if _, err := agg.Snapshot(context.Background(), true); err != nil {
		t.Fatalf("bypass snapshot: %v", err)
	}
	// 3 report horizons per brand, 2 brands.
	if got := fa.reportCount() - before; got != 6 {
		t.Fatalf("bypass must re-run all report fetches, got %d extra", got)
	}
}

func TestSnapshotRealtimeFailureFallsBackToEstimate(t *testing.T) {
	fa := scriptedAnalytics()
	fa.rtErr = errors.New("realtime unavailable")
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	got, err := agg.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4800/48 = 100.
	if got["acme"].Now != 100 {
		t.Fatalf("expected estimated now 100, got %d", got["acme"].Now)
	}
}

func TestSnapshotUpstreamFailureYieldsZeros(t *testing.T) {
	fa := &fakeAnalytics{err: errors.New("upstream down")}
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	got, err := agg.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("snapshot must not fail on per-brand errors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("all brands must be present, got %d", len(got))
	}
	// Report horizons zero out; now still floors at 1 via estimation.
	if got["acme"].Today != 0 || got["acme"].Days30 != 0 || got["acme"].Days365 != 0 {
		t.Fatalf("expected zeroed report horizons, got %+v", got["acme"])
	}
	if got["acme"].Now != 1 {
		t.Fatalf("expected estimation floor 1 for now, got %d", got["acme"].Now)
	}
}

func TestSnapshotFailureIsolation(t *testing.T) {
	fa := scriptedAnalytics()
	fa.reportErrs = map[string]error{"p-acme:30daysAgo": errors.New("quota exceeded")}
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	got, err := agg.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The failed horizon surfaces as 0; everything else is untouched.
	acme := got["acme"]
	if acme.Days30 != 0 {
		t.Fatalf("failed horizon must be 0, got %d", acme.Days30)
	}
	if acme.Now != 37 || acme.Today != 4800 || acme.Days365 != 1200000 {
		t.Fatalf("other acme horizons corrupted: %+v", acme)
	}
	beta := got["beta"]
	if beta.Now != 20 || beta.Today != 960 || beta.Days30 != 20000 || beta.Days365 != 250000 {
		t.Fatalf("beta corrupted by acme failure: %+v", beta)
	}
}

func TestSnapshotConfigError(t *testing.T) {
	p := &fakeProvider{err: models.ErrConfigUnavailable}
	agg := newTestAggregator(t, &fakeAnalytics{}, p, nil, AggregatorOptions{TTLs: testTTLs()})

	if _, err := agg.Snapshot(context.Background(), false); !errors.Is(err, models.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}

func TestSnapshotPublishesPerBrandEvents(t *testing.T) {
	fa := scriptedAnalytics()
	pub := &fakePublisher{}
	agg := newTestAggregator(t, fa, twoBrands(), pub, AggregatorOptions{TTLs: testTTLs()})

	got, err := agg.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(pub.events))
	}
	if pub.events["acme"] != got["acme"] {
		t.Fatalf("published stats must match the response")
	}
}

func TestActiveNowUnknownBrand(t *testing.T) {
	agg := newTestAggregator(t, scriptedAnalytics(), twoBrands(), nil, AggregatorOptions{TTLs: testTTLs()})

	_, _, err := agg.ActiveNow(context.Background(), "nope", time.Minute)
	if !errors.Is(err, models.ErrUnknownBrand) {
		t.Fatalf("expected ErrUnknownBrand, got %v", err)
	}
}

func TestActiveNowCachedFlag(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{
		TTLs:           testTTLs(),
		MinNowInterval: 5 * time.Second,
	})

	v, cached, err := agg.ActiveNow(context.Background(), "acme", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 37 || cached {
		t.Fatalf("first call: got v=%d cached=%v", v, cached)
	}

	v, cached, err = agg.ActiveNow(context.Background(), "acme", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 37 || !cached {
		t.Fatalf("second call: got v=%d cached=%v", v, cached)
	}
	if fa.realtimeCount() != 1 {
		t.Fatalf("expected a single realtime call, got %d", fa.realtimeCount())
	}
}

func TestActiveNowClampsInterval(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{
		TTLs:           testTTLs(),
		MinNowInterval: 5 * time.Second,
	})

	// Sub-floor intervals clamp to the same key, so the second call is a hit.
	if _, _, err := agg.ActiveNow(context.Background(), "acme", time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, cached, err := agg.ActiveNow(context.Background(), "acme", 2*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Fatalf("clamped intervals must share one cache entry")
	}
	if fa.realtimeCount() != 1 {
		t.Fatalf("expected a single realtime call, got %d", fa.realtimeCount())
	}
}

func TestActiveNowDistinctIntervalsAreIsolated(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{
		TTLs:           testTTLs(),
		MinNowInterval: 5 * time.Second,
	})

	if _, _, err := agg.ActiveNow(context.Background(), "acme", 10*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, cached, err := agg.ActiveNow(context.Background(), "acme", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatalf("a different interval must not reuse another poller's entry")
	}
	if fa.realtimeCount() != 2 {
		t.Fatalf("expected 2 realtime calls, got %d", fa.realtimeCount())
	}
}

func TestActiveNowFilteredBrandEstimates(t *testing.T) {
	fa := scriptedAnalytics()
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{
		TTLs:           testTTLs(),
		MinNowInterval: 5 * time.Second,
	})

	v, _, err := agg.ActiveNow(context.Background(), "beta", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 20 {
		t.Fatalf("got %d, want estimate 20", v)
	}
	if fa.realtimeCount() != 0 {
		t.Fatalf("filtered brand must never hit the realtime endpoint")
	}
}

func TestActiveNowDefaultProperty(t *testing.T) {
	fa := scriptedAnalytics()
	fa.realtime["p-default"] = report("5")
	agg := newTestAggregator(t, fa, twoBrands(), nil, AggregatorOptions{
		TTLs:              testTTLs(),
		MinNowInterval:    5 * time.Second,
		DefaultPropertyID: "p-default",
	})

	v, _, err := agg.ActiveNow(context.Background(), "default", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Fatalf("got %d, want 5", v)
	}
}
