// Package telemetry keeps in-process request and render metrics and serves
// them in the Prometheus text exposition format.
package telemetry

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/db"
)

var (
	durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	sizeBuckets     = []float64{1024, 16384, 65536, 262144, 1048576}
)

// histogram counts observations into fixed buckets. Bucket counts are stored
// non-cumulative and summed at export.
type histogram struct {
	boundaries []float64
	mu         sync.Mutex
	buckets    []int64
	count      int64
	sum        uint64 // math.Float64bits
}

func newHistogram(boundaries []float64) *histogram {
	return &histogram{boundaries: boundaries, buckets: make([]int64, len(boundaries))}
}

func (h *histogram) Observe(v float64) {
	atomic.AddInt64(&h.count, 1)
	for {
		old := atomic.LoadUint64(&h.sum)
		next := math.Float64bits(math.Float64frombits(old) + v)
		if atomic.CompareAndSwapUint64(&h.sum, old, next) {
			break
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, b := range h.boundaries {
		if v <= b {
			h.buckets[i]++
			return
		}
	}
}

func (h *histogram) Count() int64 { return atomic.LoadInt64(&h.count) }

func (h *histogram) Sum() float64 { return math.Float64frombits(atomic.LoadUint64(&h.sum)) }

func (h *histogram) cumulative() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, len(h.buckets))
	var running int64
	for i, c := range h.buckets {
		running += c
		out[i] = running
	}
	return out
}

// family is a set of histograms sharing a name, keyed by their label string.
type family struct {
	boundaries []float64
	mu         sync.RWMutex
	items      map[string]*histogram
}

func newFamily(boundaries []float64) *family {
	return &family{boundaries: boundaries, items: make(map[string]*histogram)}
}

func (f *family) get(labels string) *histogram {
	f.mu.RLock()
	h, ok := f.items[labels]
	f.mu.RUnlock()
	if ok {
		return h
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok = f.items[labels]; !ok {
		h = newHistogram(f.boundaries)
		f.items[labels] = h
	}
	return h
}

func (f *family) sortedKeys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Metrics is the process-wide metric registry.
type Metrics struct {
	requests     *family
	renders      *family
	responseSize *histogram
	active       int64

	mu           sync.Mutex
	renderErrors map[string]int64

	pool db.Pinger
}

// NewMetrics creates an empty registry. pool may be nil.
func NewMetrics(pool db.Pinger) *Metrics {
	return &Metrics{
		requests:     newFamily(durationBuckets),
		renders:      newFamily(durationBuckets),
		responseSize: newHistogram(sizeBuckets),
		renderErrors: make(map[string]int64),
		pool:         pool,
	}
}

// LabelsKey renders a label set in exposition order.
func LabelsKey(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", pairs[i], pairs[i+1])
	}
	return b.String()
}

// Middleware records request duration by method, route and status, plus
// response sizes and in-flight requests.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt64(&m.active, 1)
			start := time.Now()
			err := next(c)
			atomic.AddInt64(&m.active, -1)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			key := LabelsKey("method", c.Request().Method, "route", route, "status_code", strconv.Itoa(status))
			m.requests.get(key).Observe(time.Since(start).Seconds())
			if size := c.Response().Size; size > 0 {
				m.responseSize.Observe(float64(size))
			}
			return err
		}
	}
}

// ObserveRender records how long a prescription took to draw in the given
// output format.
func (m *Metrics) ObserveRender(contentType string, d time.Duration, err error) {
	m.renders.get(LabelsKey("content_type", contentType)).Observe(d.Seconds())
	if err != nil {
		m.mu.Lock()
		m.renderErrors[contentType]++
		m.mu.Unlock()
	}
}

// RenderErrors returns the number of failed renders for contentType.
func (m *Metrics) RenderErrors(contentType string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderErrors[contentType]
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		var b strings.Builder

		writeFamily(&b, "http_server_request_duration_seconds", "Duration of HTTP requests in seconds.", m.requests)

		b.WriteString("# HELP http_server_active_requests Number of in-flight HTTP requests.\n")
		b.WriteString("# TYPE http_server_active_requests gauge\n")
		fmt.Fprintf(&b, "http_server_active_requests %d\n\n", atomic.LoadInt64(&m.active))

		b.WriteString("# HELP http_server_response_size_bytes Size of HTTP response bodies in bytes.\n")
		b.WriteString("# TYPE http_server_response_size_bytes histogram\n")
		writeHistogram(&b, "http_server_response_size_bytes", "", m.responseSize)
		b.WriteByte('\n')

		writeFamily(&b, "prescription_render_duration_seconds", "Time spent laying out and encoding a prescription.", m.renders)

		b.WriteString("# HELP prescription_render_errors_total Prescriptions that failed to render.\n")
		b.WriteString("# TYPE prescription_render_errors_total counter\n")
		m.mu.Lock()
		types := make([]string, 0, len(m.renderErrors))
		for t := range m.renderErrors {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&b, "prescription_render_errors_total{content_type=%q} %d\n", t, m.renderErrors[t])
		}
		m.mu.Unlock()
		b.WriteByte('\n')

		if m.pool != nil {
			s := m.pool.Stats()
			for _, g := range []struct {
				name, help string
				val        int32
			}{
				{"db_pool_acquired_connections", "Connections currently checked out of the pool.", s.AcquiredConns},
				{"db_pool_idle_connections", "Idle connections in the pool.", s.IdleConns},
				{"db_pool_max_connections", "Configured pool size.", s.MaxConns},
			} {
				fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n\n", g.name, g.help, g.name, g.name, g.val)
			}
		}

		return c.Blob(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
	}
}

func writeFamily(b *strings.Builder, name, help string, f *family) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s histogram\n", name)
	for _, labels := range f.sortedKeys() {
		writeHistogram(b, name, labels, f.get(labels))
	}
	b.WriteByte('\n')
}

func writeHistogram(b *strings.Builder, name, labels string, h *histogram) {
	prefix, suffix := "", ""
	if labels != "" {
		prefix = labels + ","
		suffix = "{" + labels + "}"
	}
	cum := h.cumulative()
	for i, bound := range h.boundaries {
		fmt.Fprintf(b, "%s_bucket{%sle=\"%g\"} %d\n", name, prefix, bound, cum[i])
	}
	total := h.Count()
	fmt.Fprintf(b, "%s_bucket{%sle=\"+Inf\"} %d\n", name, prefix, total)
	fmt.Fprintf(b, "%s_sum%s %g\n", name, suffix, h.Sum())
	fmt.Fprintf(b, "%s_count%s %d\n", name, suffix, total)
}
