package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/service/metriccache"
	"BrandPulse/internal/usecase"
	"BrandPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubAnalytics struct{}

func (stubAnalytics) RunReport(ctx context.Context, propertyID string, dr models.DateRange, filter *models.DimensionFilter) (*models.Report, error) {
	return &models.Report{Totals: []models.ReportRow{{MetricValues: []models.MetricValue{{Value: "4800"}}}}}, nil
}

func (stubAnalytics) RunRealtimeReport(ctx context.Context, propertyID string) (*models.Report, error) {
	return &models.Report{Rows: []models.ReportRow{{MetricValues: []models.MetricValue{{Value: "37"}}}}}, nil
}

type stubProvider struct{}

func (stubProvider) Brands(ctx context.Context, bypassCache bool) (map[string]models.BrandConfig, error) {
	return map[string]models.BrandConfig{
		"acme": {Name: "Acme", PropertyID: "p-acme"},
	}, nil
}

func newTestHandler(t *testing.T) (*ActiveUsersHandler, *echo.Echo) {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	fetcher := usecase.NewMetricFetcher(stubAnalytics{}, nil)
	store := metriccache.NewStore(nil)
	agg := usecase.NewAggregator(fetcher, store, stubProvider{}, nil, nil, l, usecase.AggregatorOptions{
		TTLs: usecase.TTLs{
			Now: time.Minute, Today: time.Minute, Days30: time.Minute, Days365: time.Minute,
		},
		MinNowInterval: 5 * time.Second,
	})

	h := NewActiveUsersHandler(l, agg)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func TestAllActiveResponseShape(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/all/active", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}

	var body struct {
		Data map[string]models.BrandStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	acme, ok := body.Data["acme"]
	if !ok {
		t.Fatalf("missing acme in %s", rec.Body)
	}
	if acme.Now != 37 || acme.Today != 4800 {
		t.Fatalf("unexpected stats %+v", acme)
	}

	// Horizon keys are the dashboard wire names.
	var raw map[string]map[string]map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	for _, key := range []string{"now", "today", "30", "365"} {
		if _, ok := raw["data"]["acme"][key]; !ok {
			t.Fatalf("missing %q key in %s", key, rec.Body)
		}
	}
}

func TestActiveNowResponseShape(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-now/acme?intervalms=60000", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}

	var body models.ActiveNowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ActiveUsers != 37 || body.Cached {
		t.Fatalf("unexpected body %+v", body)
	}

	// Second poll within the interval is served from cache.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-now/acme?intervalms=60000", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Cached {
		t.Fatalf("expected cached second response, got %+v", body)
	}
}

func TestActiveNowUnknownBrand(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-now/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestActiveNowRejectsNegativeInterval(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/active-now/acme?intervalms=-5", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	_, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
