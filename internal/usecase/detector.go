package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/textproc"
)

const (
	previewLength   = 200
	claimTextLength = 200
	maxFactChecks   = 3
)

// DetectorConfig bounds inference work.
type DetectorConfig struct {
	TopK          int
	Timeout       time.Duration
	MaxConcurrent int64
	Fusion        FusionConfig
}

// DefaultDetectorConfig returns the production settings.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		TopK:          10,
		Timeout:       10 * time.Second,
		MaxConcurrent: 32,
		Fusion:        DefaultFusionConfig(),
	}
}

// DetectorDeps wires the optional collaborators of the inference path.
type DetectorDeps struct {
	Credibility  ports.CredibilityScorer
	Patterns     ports.PatternScorer
	FactCheckers []ports.FactChecker
	Cache        ports.PredictionCache
	History      ports.PredictionRepository
	Telemetry    ports.Telemetry
}

// Detector serves single-article predictions against the current model snapshot.
type Detector struct {
	handle       *model.Handle
	cfg          DetectorConfig
	credibility  ports.CredibilityScorer
	patterns     ports.PatternScorer
	factCheckers []ports.FactChecker
	cache        ports.PredictionCache
	history      ports.PredictionRepository
	telemetry    ports.Telemetry
	slots        *semaphore.Weighted
	logger       *slog.Logger
	now          func() time.Time
}

// NewDetector constructs the inference service.
func NewDetector(handle *model.Handle, cfg DetectorConfig, deps DetectorDeps, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultDetectorConfig().MaxConcurrent
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultDetectorConfig().TopK
	}
	return &Detector{
		handle:       handle,
		cfg:          cfg,
		credibility:  deps.Credibility,
		patterns:     deps.Patterns,
		factCheckers: deps.FactCheckers,
		cache:        deps.Cache,
		history:      deps.History,
		telemetry:    deps.Telemetry,
		slots:        semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:       logger,
		now:          time.Now,
	}
}

// Predict classifies one article. The model snapshot is loaded once and used for
// every step, so a concurrent swap never mixes two models in one result.
func (d *Detector) Predict(ctx context.Context, article domain.Article, mode domain.Mode) (domain.PredictionResult, error) {
	if err := article.Validate(); err != nil {
		return domain.PredictionResult{}, err
	}
	if mode != domain.ModeEnhanced && mode != domain.ModePureML {
		return domain.PredictionResult{}, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidArticle, mode)
	}

	m := d.handle.Load()
	if m == nil {
		return domain.PredictionResult{}, domain.ErrModelUnavailable
	}

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	if err := d.slots.Acquire(ctx, 1); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("acquire inference slot: %w", err)
	}
	defer d.slots.Release(1)

	started := d.now()
	key := cacheKey(m.Version, mode, article)
	if cached, ok := d.lookupCache(ctx, key); ok {
		// Each served prediction is its own history row.
		cached.ID = uuid.NewString()
		cached.CreatedAt = d.now().UTC()
		d.record(ctx, article, cached)
		return cached, nil
	}

	result, err := d.predict(ctx, m, article, mode)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, result); err != nil {
			d.logger.Warn("cache store failed", "error", err)
		}
	}
	d.record(ctx, article, result)
	if d.telemetry != nil {
		d.telemetry.ObservePrediction(mode, result.Prediction, d.now().Sub(started))
	}
	return result, nil
}

func (d *Detector) predict(ctx context.Context, m *model.Model, article domain.Article, mode domain.Mode) (domain.PredictionResult, error) {
	combined := textproc.Combine(article.Title, article.Text, article.Subject)
	processed := textproc.Normalize(combined)
	vec := m.Vectorizer.Transform(processed)

	dt, rf := classifier.Uninformed(), classifier.Uninformed()
	if vec.NNZ() > 0 {
		dt = m.Tree.Predict(vec)
		rf = m.Forest.Predict(vec)
	}

	analysis := domain.Analysis{
		DecisionTreePrediction: dt.Label,
		DecisionTreeConfidence: dt.Confidence(),
		RandomForestPrediction: rf.Label,
		RandomForestConfidence: rf.Confidence(),
		TopFeatures:            d.topFeatures(m, vec),
		TextLength:             utf8.RuneCountInString(combined),
		WordCount:              len(strings.Fields(combined)),
		ProcessedTextPreview:   preview(processed, previewLength),
	}

	result := domain.PredictionResult{
		ID:           uuid.NewString(),
		ModelMetrics: m.Metrics,
		ModelVersion: m.Version,
		CreatedAt:    d.now().UTC(),
	}

	if mode == domain.ModePureML {
		analysis.VerificationMethod = domain.VerificationPureML
		result.Prediction = rf.Label
		result.Confidence = rf.Confidence()
		result.Probabilities = domain.Probabilities{Fake: rf.ProbFake, Real: rf.ProbReal}
		result.Analysis = analysis
		result.EnhancementDetails = domain.EnhancementDetails{
			Mode:                 domain.ModePureML,
			BaseMLConfidence:     rf.Confidence(),
			EnhancementsBypassed: true,
			FinalConfidence:      rf.Confidence(),
		}
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, err
	}

	cred := neutralCredibility()
	if d.credibility != nil {
		cred = d.credibility.Score(article.CredibilityKey())
	}
	var patterns domain.PatternAnalysis
	if d.patterns != nil {
		patterns = d.patterns.Score(processed)
	}
	checks := d.lookupFactChecks(ctx, claimOf(article))

	fused := Fuse(rf, cred, patterns, d.cfg.Fusion)

	analysis.VerificationMethod = domain.VerificationEnhanced
	analysis.SourceCredibility = &cred
	analysis.PatternAnalysis = &patterns
	analysis.FactChecksFound = len(checks)
	if len(checks) > maxFactChecks {
		checks = checks[:maxFactChecks]
	}
	analysis.FactChecks = checks

	result.Prediction = fused.Label
	result.Confidence = fused.Confidence
	result.Probabilities = fused.Probabilities
	result.Analysis = analysis
	result.EnhancementDetails = fused.Details
	return result, nil
}

// topFeatures ranks the article's own terms by the impurity decrease they earned
// along the forest paths, falling back to global importances.
func (d *Detector) topFeatures(m *model.Model, vec features.Vector) []domain.FeatureWeight {
	contrib := m.Forest.Contributions(vec)
	ranked := make([]domain.FeatureWeight, 0, vec.NNZ())
	for _, col := range vec.Indices {
		if w := contrib[col]; w > 0 {
			ranked = append(ranked, domain.FeatureWeight{Term: m.Vectorizer.Term(col), Weight: w})
		}
	}
	if len(ranked) == 0 {
		return m.TopFeatures(d.cfg.TopK)
	}
	model.SortFeatures(ranked)
	if len(ranked) > d.cfg.TopK {
		ranked = ranked[:d.cfg.TopK]
	}
	return ranked
}

func (d *Detector) lookupFactChecks(ctx context.Context, claim string) []domain.FactCheck {
	var out []domain.FactCheck
	for _, checker := range d.factCheckers {
		found, err := checker.Lookup(ctx, claim)
		if err != nil {
			d.logger.Warn("fact check lookup failed", "error", err)
			continue
		}
		out = append(out, found...)
	}
	return out
}

func (d *Detector) lookupCache(ctx context.Context, key string) (domain.PredictionResult, bool) {
	if d.cache == nil {
		return domain.PredictionResult{}, false
	}
	cached, ok, err := d.cache.Get(ctx, key)
	if err != nil {
		d.logger.Warn("cache lookup failed", "error", err)
		return domain.PredictionResult{}, false
	}
	return cached, ok
}

func (d *Detector) record(ctx context.Context, article domain.Article, result domain.PredictionResult) {
	if d.history == nil {
		return
	}
	err := d.history.SavePrediction(ctx, domain.PredictionRecord{
		ID:           result.ID,
		Title:        article.Title,
		Source:       article.Source,
		Mode:         result.EnhancementDetails.Mode,
		Prediction:   result.Prediction,
		Confidence:   result.Confidence,
		BaseML:       result.EnhancementDetails.BaseMLConfidence,
		ModelVersion: result.ModelVersion,
		CreatedAt:    result.CreatedAt,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Warn("record prediction failed", "id", result.ID, "error", err)
	}
}

// Summary returns the prediction history summary, or an empty one without history.
func (d *Detector) Summary(ctx context.Context, recent int) (domain.PredictionSummary, error) {
	if d.history == nil {
		return domain.PredictionSummary{ByLabel: map[string]int{}, ByMode: map[string]int{}}, nil
	}
	summary, err := d.history.Summary(ctx, recent)
	if err != nil {
		return domain.PredictionSummary{}, fmt.Errorf("load prediction summary: %w", err)
	}
	return summary, nil
}

func neutralCredibility() domain.Credibility {
	return domain.Credibility{Score: 0.5, Factors: []string{}, Category: "Medium"}
}

// claimOf is the title plus the first 200 characters of the body.
func claimOf(article domain.Article) string {
	text := article.Text
	if utf8.RuneCountInString(text) > claimTextLength {
		text = string([]rune(text)[:claimTextLength])
	}
	return strings.TrimSpace(article.Title + " " + text)
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func cacheKey(version string, mode domain.Mode, a domain.Article) string {
	h := sha256.New()
	for _, part := range []string{version, string(mode), a.Title, a.Text, a.Subject, a.Source} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return version + ":" + string(mode) + ":" + hex.EncodeToString(h.Sum(nil))
}
