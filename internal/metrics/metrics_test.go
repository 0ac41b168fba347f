package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/events/{eventId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/events/{eventId}", "418"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events/42", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/events/{eventId}", "418"))
	assert.Equal(t, before+1, after)
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(statsCallsTotal.WithLabelValues("stats", "ok"))
	RecordStatsCall("stats", "ok", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(statsCallsTotal.WithLabelValues("stats", "ok")))

	RecordOutboxRelay("sent")
	assert.GreaterOrEqual(t, testutil.ToFloat64(outboxRelayedTotal.WithLabelValues("sent")), 1.0)
}

func TestMetricsHandler(t *testing.T) {
	RecordOutboxRelay("retry")

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "ewm_outbox_relayed_total"))
}
