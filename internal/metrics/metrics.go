package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ewm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ewm_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Stats gateway calls, by operation and result (ok, unavailable, decode_error).
	statsCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_stats_calls_total",
			Help: "Total number of calls to the statistics service",
		},
		[]string{"op", "result"},
	)

	statsCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ewm_stats_call_duration_seconds",
			Help:    "Statistics service call duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"op"},
	)

	outboxRelayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_outbox_relayed_total",
			Help: "Outbox rows relayed to the broker, by result (sent, retry, dead)",
		},
		[]string{"result"},
	)
)

func RecordStatsCall(op, result string, d time.Duration) {
	statsCallsTotal.WithLabelValues(op, result).Inc()
	statsCallDuration.WithLabelValues(op).Observe(d.Seconds())
}

func RecordOutboxRelay(result string) {
	outboxRelayedTotal.WithLabelValues(result).Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Middleware records HTTP RED metrics labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
