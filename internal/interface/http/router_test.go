package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/technician-matching/internal/domain/matching"
	"github.com/yanqian/technician-matching/internal/infra/config"
	apperrors "github.com/yanqian/technician-matching/pkg/errors"
	"github.com/yanqian/technician-matching/pkg/metrics"
)

func TestRouter_FindAvailableSuccess(t *testing.T) {
	var got matching.Query
	svc := &stubService{
		findFn: func(ctx context.Context, q matching.Query) (matching.Result, error) {
			got = q
			return matching.Result{
				Technicians: []matching.RankedTechnician{{ID: "t1", Name: "Asha", Badges: []string{}}},
				Summary: matching.Summary{
					Total:             1,
					WithinRadius:      1,
					CategoryBreakdown: map[string]int{"electrical": 1},
				},
			}, nil
		},
	}

	rec := performGet("/api/v1/technicians/available?category=Electrical&lat=12.97&lng=77.59&radiusInKm=5&limit=10", newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, matching.SpecialtyElectrical, got.Category)
	require.NotNil(t, got.Lat)
	require.NotNil(t, got.Lng)
	require.InDelta(t, 12.97, *got.Lat, 1e-9)
	require.InDelta(t, 77.59, *got.Lng, 1e-9)
	require.NotNil(t, got.RadiusKm)
	require.Equal(t, 5.0, *got.RadiusKm)
	require.Equal(t, 10, got.Limit)

	var body struct {
		Technicians []map[string]any `json:"technicians"`
		Summary     map[string]any   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Technicians, 1)
	require.Equal(t, "t1", body.Technicians[0]["id"])
	require.Nil(t, body.Technicians[0]["distanceKm"])
	require.EqualValues(t, 1, body.Summary["total"])
	require.Nil(t, body.Summary["averageEta"])
}

func TestRouter_FindAvailableDefaultsAndMalformedInput(t *testing.T) {
	var got matching.Query
	svc := &stubService{
		findFn: func(ctx context.Context, q matching.Query) (matching.Result, error) {
			got = q
			return matching.Result{Technicians: []matching.RankedTechnician{}}, nil
		},
	}
	server := newRouterUnderTest(t, svc, defaultTestConfig())

	rec := performGet("/api/v1/technicians/available", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, matching.Specialty(""), got.Category)
	require.Nil(t, got.Lat)
	require.Nil(t, got.Lng)
	require.Nil(t, got.RadiusKm)
	require.Zero(t, got.Limit)

	rec = performGet("/api/v1/technicians/available?lat=north&lng=77.5&radiusInKm=far", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, got.Lat)
	require.NotNil(t, got.Lng)
	require.NotNil(t, got.RadiusKm)
	require.True(t, math.IsNaN(*got.RadiusKm))
}

func TestRouter_FindAvailableInvalidLimit(t *testing.T) {
	svc := &stubService{
		findFn: func(ctx context.Context, q matching.Query) (matching.Result, error) {
			t.Fatal("service must not be called")
			return matching.Result{}, nil
		},
	}

	rec := performGet("/api/v1/technicians/available?limit=ten", newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "limit")
}

func TestRouter_FindAvailableDirectoryUnavailable(t *testing.T) {
	svc := &stubService{
		findFn: func(ctx context.Context, q matching.Query) (matching.Result, error) {
			return matching.Result{}, apperrors.Wrap(apperrors.CodeDirectoryUnavailable, "technician directory query failed", errors.New("connection refused"))
		},
	}

	rec := performGet("/api/v1/technicians/available", newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "service_unavailable", errBody["error"]["code"])
	require.NotContains(t, errBody["error"]["message"], "connection refused")
}

func TestRouter_Categories(t *testing.T) {
	svc := &stubService{
		categories: []matching.CategoryOption{
			{Value: matching.SpecialtyPlumbing, Label: "Plumbing"},
			{Value: matching.SpecialtyHVAC, Label: "HVAC"},
		},
	}

	rec := performGet("/api/v1/technicians/categories", newRouterUnderTest(t, svc, defaultTestConfig()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"categories":[{"value":"plumbing","label":"Plumbing"},{"value":"hvac","label":"HVAC"}]}`, rec.Body.String())
}

func TestRouter_TrendingCategories(t *testing.T) {
	svc := &stubService{
		trendingFn: func(ctx context.Context) ([]matching.CategoryCount, error) {
			return []matching.CategoryCount{{Category: matching.SpecialtyCleaning, Label: "Cleaning", Count: 4}}, nil
		},
	}
	server := newRouterUnderTest(t, svc, defaultTestConfig())

	rec := performGet("/api/v1/technicians/categories/trending", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"categories":[{"category":"cleaning","label":"Cleaning","count":4}]}`, rec.Body.String())

	svc.trendingFn = func(ctx context.Context) ([]matching.CategoryCount, error) {
		return nil, apperrors.Wrap(apperrors.CodeStatsError, "failed to load trending categories", errors.New("timeout"))
	}
	rec = performGet("/api/v1/technicians/categories/trending", server)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "stats_unavailable", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_Health(t *testing.T) {
	rec := performGet("/healthz", newRouterUnderTest(t, &stubService{}, defaultTestConfig()))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	searchMetrics := metrics.NewSearchMetrics([]string{"plumbing"})
	require.NoError(t, searchMetrics.Register(registry))
	searchMetrics.ObserveSearch("plumbing", 3, 10*time.Millisecond, nil)

	handler := NewTechnicianHandler(&stubService{}, newTestLogger())
	server := NewRouter(defaultTestConfig(), handler, registry)

	rec := performGet("/metrics", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), metrics.MetricSearchesTotal)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := newRouterUnderTest(t, &stubService{}, cfg)

	rec := performGet("/api/v1/technicians/categories", server)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performGet("/api/v1/technicians/categories", server)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performGet("/api/v1/technicians/available", server)
	require.Equal(t, http.StatusOK, rec.Code, "other routes keep their own budget")

	rec = performGet("/healthz", server)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.HTTP.CORSOrigins = []string{"https://app.example.com"}
	server := newRouterUnderTest(t, &stubService{}, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/technicians/available", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
	require.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, corsMaxAge, rec.Header().Get("Access-Control-Max-Age"))
}

func performGet(path string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newRouterUnderTest(t *testing.T, svc matching.Service, cfg *config.Config) *http.Server {
	t.Helper()
	handler := NewTechnicianHandler(svc, newTestLogger())
	return NewRouter(cfg, handler, nil)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	findFn     func(ctx context.Context, q matching.Query) (matching.Result, error)
	trendingFn func(ctx context.Context) ([]matching.CategoryCount, error)
	categories []matching.CategoryOption
}

func (s *stubService) FindAvailableTechnicians(ctx context.Context, q matching.Query) (matching.Result, error) {
	if s.findFn != nil {
		return s.findFn(ctx, q)
	}
	return matching.Result{Technicians: []matching.RankedTechnician{}}, nil
}

func (s *stubService) Categories() []matching.CategoryOption {
	if s.categories == nil {
		return []matching.CategoryOption{}
	}
	return s.categories
}

func (s *stubService) TrendingCategories(ctx context.Context) ([]matching.CategoryCount, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return []matching.CategoryCount{}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
