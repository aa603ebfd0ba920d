package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK      = "ok"
	outcomeAbsent  = "absent"
	outcomeCorrupt = "corrupt"
	outcomeError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	settingsReadsTotal  *prometheus.CounterVec
	settingsWritesTotal *prometheus.CounterVec
	decodedLayoutTotal  *prometheus.CounterVec

	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connset_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "connset_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		settingsReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connset_settings_reads_total",
				Help: "Settings blob reads by outcome",
			},
			[]string{"outcome"},
		),
		settingsWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connset_settings_writes_total",
				Help: "Settings blob writes by outcome",
			},
			[]string{"outcome"},
		),
		decodedLayoutTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connset_decoded_layout_total",
				Help: "Successful decodes by layout candidate",
			},
			[]string{"layout"},
		),
		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connset_auth_requests_total",
				Help: "API key authentication attempts",
			},
			[]string{"status"},
		),
	}
}

// statusRecorder captures the response code for instrumentation
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler wraps a handler with request count and duration metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) recordRead(outcome string) {
	m.settingsReadsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordWrite(outcome string) {
	m.settingsWritesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordDecodedLayout(layout string) {
	m.decodedLayoutTotal.WithLabelValues(layout).Inc()
}

func (m *Metrics) recordAuth(ok bool) {
	status := "rejected"
	if ok {
		status = "accepted"
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}
