package ports

import (
	"context"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/model"
)

// CorpusSource loads the labeled training corpus.
type CorpusSource interface {
	Load(ctx context.Context) ([]domain.LabeledArticle, error)
}

// ArtifactStore persists trained models. Save replaces the stored bundle atomically;
// Load returns domain.ErrArtifactNotFound or domain.ErrArtifactCorrupt on failure.
type ArtifactStore interface {
	Save(ctx context.Context, m *model.Model) error
	Load(ctx context.Context) (*model.Model, error)
}

// CredibilityScorer rates the declared source of an article.
type CredibilityScorer interface {
	Score(source string) domain.Credibility
}

// PatternScorer scans normalized text for suspicious or scientific phrasing.
type PatternScorer interface {
	Score(normalizedText string) domain.PatternAnalysis
}

// FactChecker looks up published fact checks for a claim.
type FactChecker interface {
	Lookup(ctx context.Context, claim string) ([]domain.FactCheck, error)
}

// ArticleExtractor fetches a web page and extracts the article fields.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (domain.Article, error)
}

// PredictionRepository keeps the prediction history for analytics.
type PredictionRepository interface {
	SavePrediction(ctx context.Context, record domain.PredictionRecord) error
	Summary(ctx context.Context, recent int) (domain.PredictionSummary, error)
}

// PredictionCache memoizes results per model version.
type PredictionCache interface {
	Get(ctx context.Context, key string) (domain.PredictionResult, bool, error)
	Set(ctx context.Context, key string, result domain.PredictionResult) error
}

// Notifier streams training reports to Telegram or other channels.
type Notifier interface {
	PublishReport(ctx context.Context, report string) error
}

// Telemetry records service-level measurements.
type Telemetry interface {
	ObservePrediction(mode domain.Mode, label domain.Label, elapsed time.Duration)
	ObserveTraining(outcome string, elapsed time.Duration)
	SetModel(version string, metrics domain.ModelMetrics)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
