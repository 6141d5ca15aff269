package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsGeneration(t *testing.T) {
	r := NewRecorder()
	r.LineupGenerated(3*time.Millisecond, map[string]int{"P": 2, "LF": 0}, 1)
	r.LineupGenerated(time.Millisecond, nil, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.generated))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.unfilled.WithLabelValues("P")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.benchOverrides))
	assert.Equal(t, 1, testutil.CollectAndCount(r.unfilled))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.LineupGenerated(time.Second, map[string]int{"C": 1}, 3)
	assert.Nil(t, r.Registry())

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	r.InstrumentHandler(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.LineupGenerated(time.Millisecond, map[string]int{"RF": 1}, 0)

	h := r.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `fieldday_unfilled_slots_total{position="RF"} 1`))
	assert.Contains(t, body, "fieldday_lineups_generated_total 1")
	assert.Contains(t, body, `fieldday_http_requests_total{code="200",method="get"} 1`)
}
