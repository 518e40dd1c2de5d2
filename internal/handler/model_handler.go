package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/usecase"
)

const (
	defaultRecent = 10
	maxRecent     = 100
	topGlobalK    = 20
)

// ModelResponse describes the serving model.
type ModelResponse struct {
	Version        string                 `json:"version"`
	Seed           int64                  `json:"seed"`
	TrainedAt      string                 `json:"trained_at"`
	TrainSamples   int                    `json:"train_samples"`
	TestSamples    int                    `json:"test_samples"`
	VocabularySize int                    `json:"vocabulary_size"`
	Trees          int                    `json:"trees"`
	TopFeatures    []domain.FeatureWeight `json:"top_features"`
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "fake news detector",
		"endpoints": []string{
			"GET /health",
			"POST /predict",
			"POST /predict-pure-ml",
			"GET /metrics",
			"GET /model",
			"GET /dataset-stats",
			"GET /analytics",
			"POST /retrain-full-dataset",
			"GET /retrain/status",
			"POST /reload",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	res := gin.H{"status": "healthy", "model_ready": false}
	if m := h.deps.Handle.Load(); m != nil {
		res["model_ready"] = true
		res["model_version"] = m.Version
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetMetrics(c *gin.Context) {
	m := h.deps.Handle.Load()
	if m == nil {
		h.fail(c, "metrics", domain.ErrModelUnavailable)
		return
	}
	res := gin.H{
		"model_version": m.Version,
		"model_metrics": m.Metrics,
	}
	if h.deps.HeuristicSizes != nil {
		res["heuristics"] = h.deps.HeuristicSizes()
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetModel(c *gin.Context) {
	m := h.deps.Handle.Load()
	if m == nil {
		h.fail(c, "model info", domain.ErrModelUnavailable)
		return
	}
	c.JSON(http.StatusOK, ModelResponse{
		Version:        m.Version,
		Seed:           m.Seed,
		TrainedAt:      m.TrainedAt.UTC().Format(time.RFC3339),
		TrainSamples:   m.TrainSamples,
		TestSamples:    m.TestSamples,
		VocabularySize: m.Vectorizer.Dim(),
		Trees:          len(m.Forest.Trees),
		TopFeatures:    m.TopFeatures(topGlobalK),
	})
}

func (h *Handler) GetDatasetStats(c *gin.Context) {
	stats, err := h.deps.Lifecycle.DatasetStats(c.Request.Context())
	if err != nil {
		h.fail(c, "dataset stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	recent := getQueryInt("recent", defaultRecent, c)
	recent = max(0, min(recent, maxRecent))

	summary, err := h.deps.Predictor.Summary(c.Request.Context(), recent)
	if err != nil {
		h.fail(c, "analytics", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) PostRetrain(c *gin.Context) {
	status, err := h.deps.Lifecycle.StartRetrain(h.deps.JobContext, "api")
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error(), "job": h.deps.Lifecycle.Status()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "retraining started", "job": status})
}

func (h *Handler) GetRetrainStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Lifecycle.Status())
}

func (h *Handler) PostReload(c *gin.Context) {
	if err := h.deps.Lifecycle.Reload(c.Request.Context()); err != nil {
		h.fail(c, "reload", err)
		return
	}
	res := gin.H{"message": "model reloaded"}
	if m := h.deps.Handle.Load(); m != nil {
		res["model_version"] = m.Version
	}
	c.JSON(http.StatusOK, res)
}

func getQueryInt(key string, fallback int, c *gin.Context) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

var _ Lifecycle = (*usecase.Service)(nil)
var _ Predictor = (*usecase.Detector)(nil)
