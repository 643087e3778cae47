// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/carmatch/internal/logging"
)

func TestPerformanceMonitor_Stats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, time.Second)
	for _, d := range []int64{10, 20, 30, 40, 100} {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/recommendations", Method: http.MethodPost, DurationMS: d, StatusCode: 200})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/feedback", Method: http.MethodPost, DurationMS: 5, StatusCode: 500})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(stats))
	}

	rec := stats[0]
	if rec.Endpoint != "POST /api/v1/recommendations" {
		t.Fatalf("busiest endpoint = %q", rec.Endpoint)
	}
	if rec.RequestCount != 5 || rec.MinDuration != 10 || rec.MaxDuration != 100 {
		t.Errorf("stats = %+v", rec)
	}
	if rec.AvgDuration != 40 || rec.P50Duration != 30 || rec.P99Duration != 40 {
		t.Errorf("avg/p50/p99 = %v/%d/%d", rec.AvgDuration, rec.P50Duration, rec.P99Duration)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("feedback ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_Window(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0)
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: i})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 || recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("recent = %+v", recent)
	}
	if got := pm.GetRecentMetrics(-1); len(got) != 0 {
		t.Errorf("GetRecentMetrics(-1) = %d items", len(got))
	}

	stats := pm.GetStats()
	if stats[0].RequestCount != 3 || stats[0].TotalCount != 5 {
		t.Errorf("window count %d, total count %d; want 3, 5", stats[0].RequestCount, stats[0].TotalCount)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pm := NewPerformanceMonitor(10, time.Nanosecond)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := logging.ContextWithLogger(req.Context(), logging.NewTestLogger(&buf))
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Use(pm.Middleware)
	r.Delete("/api/v1/sessions/{sessionID}", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s-1", nil).WithContext(context.Background())
	r.ServeHTTP(httptest.NewRecorder(), req)

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatal("request was not recorded")
	}
	if recent[0].Route != "/api/v1/sessions/{sessionID}" || recent[0].StatusCode != http.StatusNoContent {
		t.Errorf("recorded %+v", recent[0])
	}
	if !strings.Contains(buf.String(), "slow request") {
		t.Errorf("expected slow request log, got %s", buf.String())
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	if percentile(nil, 0.5) != 0 {
		t.Error("percentile of empty slice should be 0")
	}
	if got := percentile([]int64{1, 2, 3, 4}, 0.5); got != 2 {
		t.Errorf("percentile = %d, want 2", got)
	}
}
