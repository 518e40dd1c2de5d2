package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/corpus"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/handler"
	"FakeNewsDetector/internal/heuristics"
	"FakeNewsDetector/internal/infrastructure/artifacts"
	"FakeNewsDetector/internal/infrastructure/cache"
	"FakeNewsDetector/internal/infrastructure/dataset"
	"FakeNewsDetector/internal/infrastructure/factcheck"
	"FakeNewsDetector/internal/infrastructure/parser"
	"FakeNewsDetector/internal/infrastructure/scheduler"
	"FakeNewsDetector/internal/infrastructure/storage"
	"FakeNewsDetector/internal/infrastructure/telegram"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/metrics"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/usecase"
	"FakeNewsDetector/pkg/logger"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	handle    *model.Handle
	service   *usecase.Service
	detector  *usecase.Detector
	scheduler *usecase.Scheduler
	recorder  *metrics.Recorder

	credibility *heuristics.CredibilityScorer
	patterns    *heuristics.PatternScorer
	extractor   *parser.HTMLExtractor

	db         *sql.DB
	corpusRepo *storage.CorpusRepository
	redis      *redis.Client
}

// New builds the application graph. Postgres is required when configured;
// Redis, Telegram and the remote fact checker degrade to disabled on failure.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{
		cfg:         cfg,
		logger:      baseLogger,
		handle:      model.NewHandle(),
		recorder:    metrics.NewRecorder(),
		credibility: heuristics.NewCredibilityScorer(),
		patterns:    heuristics.NewPatternScorer(),
		extractor:   parser.NewHTMLExtractor(nil),
	}

	var history ports.PredictionRepository
	if cfg.Database.DSN != "" {
		db, err := openDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.corpusRepo = storage.NewCorpusRepository(db)
		history = storage.NewPostgresRepository(db)
	}

	var predictionCache ports.PredictionCache
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			baseLogger.Warn("prediction cache disabled", "error", err)
		} else {
			a.redis = client
			predictionCache = cache.NewRedisCache(client, cfg.Redis.TTL)
		}
	}

	registry := corpus.NewRegistry()
	registry.Register(dataset.NewCSVLoader(cfg.Corpus.FakePath, cfg.Corpus.TruePath))
	if a.corpusRepo != nil {
		registry.Register(a.corpusRepo)
	}
	source := corpus.NewSource(registry, corpus.Options{
		Source:     cfg.Corpus.Source,
		SampleSize: cfg.Corpus.SampleSize,
		Seed:       cfg.Training.Seed,
	}, baseLogger.With("component", "corpus"))

	var notifier ports.Notifier
	if cfg.Telegram.BotToken != "" {
		n, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, "")
		if err != nil {
			baseLogger.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = n
		}
	}

	trainer := usecase.NewTrainer(trainerConfig(cfg.Training), baseLogger.With("component", "trainer"))
	a.service = usecase.NewService(a.handle, trainer, usecase.ServiceDeps{
		Corpus:    source,
		Store:     artifacts.NewFileStore(cfg.Model.ArtifactDir),
		Notifier:  notifier,
		Telemetry: a.recorder,
	}, baseLogger.With("component", "service"))

	checkers := []ports.FactChecker{heuristics.NewCannedFactChecker()}
	if cfg.FactCheck.APIKey != "" {
		checkers = append(checkers, factcheck.NewClient(cfg.FactCheck.Endpoint, cfg.FactCheck.APIKey, cfg.FactCheck.Language, 0))
	}

	detectorCfg, err := detectorConfig(cfg.Inference)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.detector = usecase.NewDetector(a.handle, detectorCfg, usecase.DetectorDeps{
		Credibility:  a.credibility,
		Patterns:     a.patterns,
		FactCheckers: checkers,
		Cache:        predictionCache,
		History:      history,
		Telemetry:    a.recorder,
	}, baseLogger.With("component", "detector"))

	if cfg.Scheduler.CronExpression != "" {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
		a.scheduler = usecase.NewScheduler(driver, a.service, baseLogger.With("component", "scheduler"))
	}

	return a, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if cfg.Migrate {
		if err := storage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func trainerConfig(cfg config.TrainingConfig) usecase.TrainerConfig {
	return usecase.TrainerConfig{
		TestFraction: cfg.TestFraction,
		MinPerClass:  cfg.MinPerClass,
		Seed:         cfg.Seed,
		Vectorizer:   cfg.Vectorizer,
		Tree:         cfg.Tree,
		Forest:       cfg.Forest,
	}
}

func detectorConfig(cfg config.InferenceConfig) (usecase.DetectorConfig, error) {
	fusion := usecase.FusionConfig{
		CredibilityWeight: cfg.CredibilityWeight,
		PatternWeight:     cfg.PatternWeight,
		MaxShift:          cfg.MaxShift,
	}
	if err := fusion.Validate(); err != nil {
		return usecase.DetectorConfig{}, err
	}
	return usecase.DetectorConfig{
		TopK:          cfg.TopK,
		Timeout:       cfg.Timeout,
		MaxConcurrent: cfg.MaxConcurrent,
		Fusion:        fusion,
	}, nil
}

// Handler returns the HTTP API bound to jobCtx for background retrains.
func (a *Application) Handler(jobCtx context.Context) http.Handler {
	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return handler.NewRouter(handler.Deps{
		Handle:    a.handle,
		Predictor: a.detector,
		Lifecycle: a.service,
		Extractor: a.extractor,
		HeuristicSizes: func() map[string]int {
			sizes := a.credibility.TableSizes()
			sizes["pattern_phrases"] = a.patterns.PhraseCount()
			return sizes
		},
		Observer:       a.recorder,
		MetricsHandler: a.recorder.Handler(),
		JobContext:     jobCtx,
		Logger:         a.logger.With("component", "http"),
	}, handler.Options{
		AllowedOrigins: a.cfg.HTTP.AllowedOrigins,
		RateLimit:      a.cfg.HTTP.RateLimit,
		RateBurst:      a.cfg.HTTP.RateBurst,
	})
}

// Serve loads or trains the model, starts the scheduler and serves HTTP until
// ctx is cancelled. A missing model does not stop the server; predict routes
// answer 503 until a retrain or reload succeeds.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.service.Initialize(ctx, a.cfg.Model.TrainOnStartup); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		a.logger.Warn("serving without a model", "error", err)
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := a.scheduler.Stop(stopCtx); err != nil {
				a.logger.Warn("scheduler stop", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      a.Handler(ctx),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     logger.New(a.logger, "http.server"),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.logger.Info("http server stopped")
	return <-errCh
}

// Train fits a model from the configured corpus, persists and publishes it.
func (a *Application) Train(ctx context.Context) (*model.Model, error) {
	return a.service.Retrain(ctx, "cli")
}

// Predict classifies one article, loading or training a model first if needed.
func (a *Application) Predict(ctx context.Context, article domain.Article, mode domain.Mode) (domain.PredictionResult, error) {
	if !a.handle.Ready() {
		if err := a.service.Initialize(ctx, a.cfg.Model.TrainOnStartup); err != nil {
			return domain.PredictionResult{}, err
		}
	}
	return a.detector.Predict(ctx, article, mode)
}

// ImportCorpus copies the CSV corpus into Postgres.
func (a *Application) ImportCorpus(ctx context.Context, fakePath, truePath string) (int, error) {
	if a.corpusRepo == nil {
		return 0, fmt.Errorf("%w: import requires database.dsn", domain.ErrConfig)
	}
	articles, err := dataset.NewCSVLoader(fakePath, truePath).Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := a.corpusRepo.SaveArticles(ctx, articles); err != nil {
		return 0, err
	}
	return len(articles), nil
}

// Close releases the database and cache connections.
func (a *Application) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
