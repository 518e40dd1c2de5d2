package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/usecase"
)

// Predictor serves single-article predictions and the prediction history.
type Predictor interface {
	Predict(ctx context.Context, article domain.Article, mode domain.Mode) (domain.PredictionResult, error)
	Summary(ctx context.Context, recent int) (domain.PredictionSummary, error)
}

// Lifecycle manages retraining and reloading of the serving model.
type Lifecycle interface {
	StartRetrain(ctx context.Context, trigger string) (usecase.JobStatus, error)
	Status() usecase.JobStatus
	Reload(ctx context.Context) error
	DatasetStats(ctx context.Context) (domain.DatasetStats, error)
}

// RequestObserver counts served requests per route.
type RequestObserver interface {
	ObserveRequest(route string, status int)
}

// Deps wires the router. Handle, Predictor and Lifecycle are required.
type Deps struct {
	Handle    *model.Handle
	Predictor Predictor
	Lifecycle Lifecycle
	Extractor ports.ArticleExtractor
	// HeuristicSizes reports the sizes of the heuristic tables for /metrics.
	HeuristicSizes func() map[string]int
	Observer       RequestObserver
	// MetricsHandler serves the Prometheus exposition on /debug/metrics.
	MetricsHandler http.Handler
	// JobContext outlives single requests; background retrains run under it.
	JobContext context.Context
	Logger     *slog.Logger
}

// Options configures cross-cutting middleware.
type Options struct {
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	ExtractTimeout time.Duration
}

// Handler groups the HTTP endpoints of the detector.
type Handler struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps, opts Options) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.JobContext == nil {
		deps.JobContext = context.Background()
	}
	if opts.ExtractTimeout <= 0 {
		opts.ExtractTimeout = 15 * time.Second
	}
	h := &Handler{deps: deps, opts: opts, logger: deps.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), h.accessLog())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	limiter := newClientLimiter(opts.RateLimit, opts.RateBurst)

	r.GET("/", h.GetIndex)
	r.GET("/health", h.GetHealth)
	r.POST("/predict", limiter.middleware(), h.PostPredict)
	r.POST("/predict-pure-ml", limiter.middleware(), h.PostPredictPureML)
	r.GET("/metrics", h.GetMetrics)
	r.GET("/model", h.GetModel)
	r.GET("/dataset-stats", h.GetDatasetStats)
	r.GET("/analytics", h.GetAnalytics)
	r.POST("/retrain-full-dataset", h.PostRetrain)
	r.GET("/retrain/status", h.GetRetrainStatus)
	r.POST("/reload", h.PostReload)
	if deps.MetricsHandler != nil {
		r.GET("/debug/metrics", gin.WrapH(deps.MetricsHandler))
	}
	return r
}

// accessLog logs each request and feeds the request counter.
func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if h.deps.Observer != nil {
			h.deps.Observer.ObserveRequest(route, status)
		}
		h.logger.Debug("request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"elapsed", time.Since(started),
			"client", c.ClientIP(),
		)
	}
}
