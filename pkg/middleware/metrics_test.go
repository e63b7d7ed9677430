package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric extracts the first metric from a Collector whose labels contain
// all the given key/value pairs, or nil if none matches.
func findMetric(c prometheus.Collector, labels map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}

		match := true
		for k, v := range labels {
			found := false
			for _, lp := range d.GetLabel() {
				if lp.GetName() == k && lp.GetValue() == v {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

// metricsRouter mounts a handler behind the metrics middleware on a chi
// router so that RouteContext carries a route pattern.
func metricsRouter(serviceName string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(serviceName))
	r.Get("/variants", handler)
	return r
}

func TestPrometheusMetrics_CountsRequestsPerRoute(t *testing.T) {
	handler := metricsRouter("counter-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/variants", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	labels := map[string]string{"service": "counter-svc", "method": "GET", "path": "/variants", "status": "200"}
	m := findMetric(httpRequestsTotal, labels)
	require.NotNil(t, m, "counter should exist for counter-svc GET /variants 200")
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(3))
}

func TestPrometheusMetrics_RecordsDuration(t *testing.T) {
	handler := metricsRouter("hist-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/variants", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	labels := map[string]string{"service": "hist-svc", "method": "GET", "path": "/variants", "status": "201"}
	m := findMetric(httpRequestDuration, labels)
	require.NotNil(t, m, "histogram should exist")
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestPrometheusMetrics_TracksInFlight(t *testing.T) {
	inFlightSeen := float64(-1)
	handler := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			inFlightSeen = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/variants", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.GreaterOrEqual(t, inFlightSeen, float64(1), "gauge should be at least 1 while the handler runs")
}

func TestPrometheusMetrics_DefaultsStatusTo200(t *testing.T) {
	handler := metricsRouter("default-status-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/variants", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	labels := map[string]string{"service": "default-status-svc", "status": "200"}
	m := findMetric(httpRequestsTotal, labels)
	require.NotNil(t, m, "status should be 200 when WriteHeader is never called")
}

type flushingWriter struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushingWriter) Flush() { f.flushed = true }

func TestStatusRecorder_FlushDelegates(t *testing.T) {
	underlying := &flushingWriter{ResponseWriter: httptest.NewRecorder()}
	rec := &statusRecorder{ResponseWriter: underlying, statusCode: http.StatusOK}

	rec.Flush()

	assert.True(t, underlying.flushed)
}

func TestStatusRecorder_FlushNoOpWithoutFlusher(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: &bareWriter{}, statusCode: http.StatusOK}

	// Must not panic when the underlying writer cannot flush.
	rec.Flush()
}

type hijackingWriter struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestStatusRecorder_HijackDelegates(t *testing.T) {
	underlying := &hijackingWriter{ResponseWriter: httptest.NewRecorder()}
	rec := &statusRecorder{ResponseWriter: underlying, statusCode: http.StatusOK}

	_, _, err := rec.Hijack()

	assert.NoError(t, err)
	assert.True(t, underlying.hijacked)
}

func TestStatusRecorder_HijackErrorWithoutHijacker(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: &bareWriter{}, statusCode: http.StatusOK}

	_, _, err := rec.Hijack()

	assert.ErrorIs(t, err, http.ErrNotSupported)
}

// bareWriter implements only http.ResponseWriter, no Flusher or Hijacker.
type bareWriter struct {
	header http.Header
}

func (b *bareWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *bareWriter) Write(p []byte) (int, error) { return len(p), nil }

func (b *bareWriter) WriteHeader(int) {}
