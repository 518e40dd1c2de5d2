package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/domain"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecorderCounts(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObservePrediction(domain.ModeEnhanced, domain.LabelFake, 3*time.Millisecond)
	r.ObservePrediction(domain.ModeEnhanced, domain.LabelFake, 5*time.Millisecond)
	r.ObserveTraining("success", 2*time.Second)

	body := scrape(t, r)
	assert.Contains(t, body, `fakenews_predictions_total{label="FAKE",mode="enhanced"} 2`)
	assert.Contains(t, body, `fakenews_training_runs_total{outcome="success"} 1`)
	assert.Contains(t, body, `fakenews_prediction_latency_seconds_count{mode="enhanced"} 2`)
}

func TestSetModelReplacesVersion(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.SetModel("v1", domain.ModelMetrics{domain.RandomForestName: {TestAccuracy: 0.9}})
	r.SetModel("v2", domain.ModelMetrics{domain.RandomForestName: {TestAccuracy: 0.95}})

	body := scrape(t, r)
	assert.Contains(t, body, `fakenews_model_info{version="v2"} 1`)
	assert.NotContains(t, body, `version="v1"`)
	assert.Contains(t, body, `fakenews_model_test_accuracy{classifier="Random Forest"} 0.95`)
}

func TestHandlerExposesRequestCounts(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveRequest("/predict", http.StatusOK)

	assert.Contains(t, scrape(t, r), `fakenews_http_requests_total{route="/predict",status="200"} 1`)
}
