package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveReportGeneration(OutcomeSuccess, 3*time.Second)
	pr.ObserveReportGeneration(OutcomeSuccess, time.Second)
	pr.ObserveReportGeneration(OutcomeInvalid, time.Second)
	pr.AddCoinsSpent("report", 10)
	pr.AddCoinsSpent("report", -5)
	pr.AddPlacesGenerated(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.reportOutcomes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.reportOutcomes.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 10.0, testutil.ToFloat64(pr.coinsSpent.WithLabelValues("report")))
	assert.Equal(t, 7.0, testutil.ToFloat64(pr.placesGenerated))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddPlacesGenerated(3)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "compath_places_generated_total 3")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveReportGeneration(OutcomeFailed, time.Second)
	r.AddCoinsSpent("x", 1)
	r.AddPlacesGenerated(1)
}
