// Package metrics exposes service telemetry as Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Recorder implements ports.Telemetry on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	predictions       *prometheus.CounterVec
	predictionLatency *prometheus.HistogramVec
	trainingRuns      *prometheus.CounterVec
	trainingDuration  prometheus.Histogram
	modelInfo         *prometheus.GaugeVec
	modelAccuracy     *prometheus.GaugeVec
	httpRequests      *prometheus.CounterVec
}

var _ ports.Telemetry = (*Recorder)(nil)

// NewRecorder registers every collector, plus the Go and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakenews_predictions_total",
				Help: "Total number of predictions served",
			},
			[]string{"mode", "label"},
		),
		predictionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fakenews_prediction_latency_seconds",
				Help:    "Prediction latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"mode"},
		),
		trainingRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakenews_training_runs_total",
				Help: "Total number of training runs",
			},
			[]string{"outcome"}, // outcome: success|failure
		),
		trainingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fakenews_training_duration_seconds",
				Help:    "Training run duration in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
		),
		modelInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fakenews_model_info",
				Help: "Currently served model version (value is always 1)",
			},
			[]string{"version"},
		),
		modelAccuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fakenews_model_test_accuracy",
				Help: "Held-out accuracy of the served model per classifier",
			},
			[]string{"classifier"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakenews_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}

	r.registry.MustRegister(
		r.predictions,
		r.predictionLatency,
		r.trainingRuns,
		r.trainingDuration,
		r.modelInfo,
		r.modelAccuracy,
		r.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler returns the Prometheus exposition handler for this registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObservePrediction counts one prediction and records its latency.
func (r *Recorder) ObservePrediction(mode domain.Mode, label domain.Label, elapsed time.Duration) {
	r.predictions.WithLabelValues(string(mode), string(label)).Inc()
	r.predictionLatency.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

// ObserveTraining counts one training run and records its duration.
func (r *Recorder) ObserveTraining(outcome string, elapsed time.Duration) {
	r.trainingRuns.WithLabelValues(outcome).Inc()
	r.trainingDuration.Observe(elapsed.Seconds())
}

// SetModel marks version as the served model.
func (r *Recorder) SetModel(version string, metrics domain.ModelMetrics) {
	r.modelInfo.Reset()
	r.modelInfo.WithLabelValues(version).Set(1)
	for name, m := range metrics {
		r.modelAccuracy.WithLabelValues(name).Set(m.TestAccuracy)
	}
}

// ObserveRequest counts one HTTP request.
func (r *Recorder) ObserveRequest(route string, status int) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
