package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/db"
)

type fakePool struct{}

func (fakePool) Ping(context.Context) error { return nil }
func (fakePool) Stats() *db.PoolStats {
	return &db.PoolStats{AcquiredConns: 2, IdleConns: 3, MaxConns: 10}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/metrics", nil), rec)
	if err := m.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("expected text exposition, got %q", rec.Header().Get("Content-Type"))
	}
	return rec.Body.String()
}

func TestHistogram_Buckets(t *testing.T) {
	h := newHistogram([]float64{1, 5, 10})
	for _, v := range []float64{0.5, 3, 3, 7, 20} {
		h.Observe(v)
	}
	if h.Count() != 5 {
		t.Errorf("expected 5 observations, got %d", h.Count())
	}
	if h.Sum() != 33.5 {
		t.Errorf("expected sum 33.5, got %v", h.Sum())
	}
	want := []int64{1, 3, 4}
	for i, c := range h.cumulative() {
		if c != want[i] {
			t.Errorf("bucket %d: expected %d, got %d", i, want[i], c)
		}
	}
}

func TestLabelsKey(t *testing.T) {
	got := LabelsKey("method", "GET", "route", "/api/v1/patients")
	if got != `method="GET",route="/api/v1/patients"` {
		t.Errorf("unexpected labels %q", got)
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics(nil)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/patients/:id", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/api/v1/patients/1", "/api/v1/patients/2", "/api/v1/patients/404"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	ok := m.requests.get(LabelsKey("method", "GET", "route", "/api/v1/patients/:id", "status_code", "200"))
	if ok.Count() != 2 {
		t.Errorf("expected 2 successful requests under the route pattern, got %d", ok.Count())
	}
	missing := m.requests.get(LabelsKey("method", "GET", "route", "/api/v1/patients/:id", "status_code", "404"))
	if missing.Count() != 1 {
		t.Errorf("expected 1 not-found request, got %d", missing.Count())
	}
	if m.responseSize.Count() == 0 {
		t.Error("expected response sizes to be recorded")
	}
}

func TestObserveRender(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveRender("application/pdf", 40*time.Millisecond, nil)
	m.ObserveRender("application/pdf", 60*time.Millisecond, errors.New("draw failed"))
	m.ObserveRender("image/png", 120*time.Millisecond, nil)

	if n := m.renders.get(LabelsKey("content_type", "application/pdf")).Count(); n != 2 {
		t.Errorf("expected 2 pdf renders, got %d", n)
	}
	if m.RenderErrors("application/pdf") != 1 {
		t.Errorf("expected 1 pdf render error, got %d", m.RenderErrors("application/pdf"))
	}
	if m.RenderErrors("image/png") != 0 {
		t.Error("expected no png render errors")
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := NewMetrics(fakePool{})
	m.ObserveRender("application/pdf", 30*time.Millisecond, errors.New("boom"))
	body := scrape(t, m)

	for _, want := range []string{
		"# TYPE http_server_request_duration_seconds histogram",
		"http_server_active_requests 0",
		`prescription_render_duration_seconds_bucket{content_type="application/pdf",le="0.05"} 1`,
		`prescription_render_duration_seconds_count{content_type="application/pdf"} 1`,
		`prescription_render_errors_total{content_type="application/pdf"} 1`,
		"db_pool_acquired_connections 2",
		"db_pool_max_connections 10",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}

func TestHandler_NoPool(t *testing.T) {
	body := scrape(t, NewMetrics(nil))
	if strings.Contains(body, "db_pool_") {
		t.Error("expected no pool gauges without a pool")
	}
}
