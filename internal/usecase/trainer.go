package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/textproc"
)

// TrainerConfig holds every knob of a training run.
type TrainerConfig struct {
	// TestFraction is the share of each class held out for evaluation.
	TestFraction float64
	MinPerClass  int
	// Seed drives the split, feature sampling and bootstrap. Zero picks a fresh
	// seed that is recorded on the model.
	Seed       int64
	Vectorizer features.Config
	Tree       classifier.TreeConfig
	Forest     classifier.ForestConfig
}

// DefaultTrainerConfig returns the production settings.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		TestFraction: 0.2,
		MinPerClass:  5,
		Seed:         42,
		Vectorizer:   features.DefaultConfig(),
		Tree:         classifier.DefaultTreeConfig(),
		Forest:       classifier.DefaultForestConfig(),
	}
}

// Validate checks the split settings; nested configs validate themselves at fit time.
func (c TrainerConfig) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("%w: testFraction must be in (0, 1), got %g", domain.ErrConfig, c.TestFraction)
	}
	if c.MinPerClass < 2 {
		return fmt.Errorf("%w: minPerClass must be at least 2, got %d", domain.ErrConfig, c.MinPerClass)
	}
	return nil
}

// Trainer turns a labeled corpus into a new Model. It never touches the serving
// handle; publishing is the caller's job.
type Trainer struct {
	cfg    TrainerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewTrainer builds a trainer with cfg.
func NewTrainer(cfg TrainerConfig, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{cfg: cfg, logger: logger, now: time.Now}
}

type split struct {
	trainDocs   []string
	trainLabels []domain.Label
	testDocs    []string
	testLabels  []domain.Label
}

// Train runs normalize, split, vectorize, fit and evaluate. Every failure is a
// *domain.StageError; data problems also match domain.ErrTraining.
func (t *Trainer) Train(ctx context.Context, articles []domain.LabeledArticle) (*model.Model, error) {
	started := t.now()
	seed := t.cfg.Seed
	if seed == 0 {
		seed = started.UnixNano()
	}

	if err := t.cfg.Validate(); err != nil {
		return nil, domain.NewStageError(domain.StageValidate, err)
	}
	if err := validateCorpus(articles, t.cfg.MinPerClass); err != nil {
		return nil, domain.NewStageError(domain.StageValidate, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageNormalize, err)
	}
	docs := make([]string, len(articles))
	labels := make([]domain.Label, len(articles))
	for i, la := range articles {
		docs[i] = textproc.NormalizeArticle(la.Article.Title, la.Article.Text, la.Article.Subject)
		labels[i] = la.Label
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageSplit, err)
	}
	parts := stratifiedSplit(docs, labels, t.cfg.TestFraction, seed)
	t.logger.Info("corpus split",
		"train", len(parts.trainDocs),
		"test", len(parts.testDocs),
		"seed", seed)

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageVectorize, err)
	}
	vectorizer, err := features.Fit(parts.trainDocs, t.cfg.Vectorizer)
	if err != nil {
		return nil, domain.NewStageError(domain.StageVectorize, err)
	}
	trainX := vectorizer.TransformAll(parts.trainDocs)
	testX := vectorizer.TransformAll(parts.testDocs)
	t.logger.Info("vectorizer fitted", "vocabulary", vectorizer.Dim())

	ds, err := classifier.NewDataset(trainX, parts.trainLabels)
	if err != nil {
		return nil, domain.NewStageError(domain.StageFitTree, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageFitTree, err)
	}
	tree, err := classifier.FitTree(ds, t.cfg.Tree, seed)
	if err != nil {
		return nil, domain.NewStageError(domain.StageFitTree, err)
	}
	t.logger.Info("decision tree fitted", "nodes", len(tree.Nodes))

	forest, err := classifier.FitForest(ctx, ds, t.cfg.Forest, seed)
	if err != nil {
		return nil, domain.NewStageError(domain.StageFitForest, err)
	}
	t.logger.Info("random forest fitted", "trees", len(forest.Trees))

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStageError(domain.StageEvaluate, err)
	}
	metrics := domain.ModelMetrics{
		domain.DecisionTreeName: classifier.Evaluate(tree, trainX, parts.trainLabels, testX, parts.testLabels),
		domain.RandomForestName: classifier.Evaluate(forest, trainX, parts.trainLabels, testX, parts.testLabels),
	}

	m := &model.Model{
		Version:      uuid.NewString(),
		Seed:         seed,
		TrainedAt:    t.now().UTC(),
		Vectorizer:   vectorizer,
		Tree:         tree,
		Forest:       forest,
		Metrics:      metrics,
		TrainSamples: len(parts.trainDocs),
		TestSamples:  len(parts.testDocs),
	}

	t.logger.Info("training finished",
		"version", m.Version,
		"rf_test_accuracy", metrics[domain.RandomForestName].TestAccuracy,
		"dt_test_accuracy", metrics[domain.DecisionTreeName].TestAccuracy,
		"elapsed", t.now().Sub(started))
	return m, nil
}

func validateCorpus(articles []domain.LabeledArticle, minPerClass int) error {
	var counts [2]int
	for i, la := range articles {
		idx := la.Label.Index()
		if idx < 0 {
			return fmt.Errorf("%w: article %d has unknown label %q", domain.ErrTraining, i, la.Label)
		}
		counts[idx]++
	}
	for idx, n := range counts {
		if n < minPerClass {
			return fmt.Errorf("%w: %d %s examples, need at least %d",
				domain.ErrTraining, n, domain.Labels[idx], minPerClass)
		}
	}
	return nil
}

// stratifiedSplit holds out round(n*fraction) rows of each class, at least one
// and never the whole class.
func stratifiedSplit(docs []string, labels []domain.Label, fraction float64, seed int64) split {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x853c49e6748fea9b))

	var byClass [2][]int
	for i, label := range labels {
		idx := label.Index()
		byClass[idx] = append(byClass[idx], i)
	}

	var trainIdx, testIdx []int
	for _, members := range byClass {
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		nTest := int(math.Round(float64(len(members)) * fraction))
		nTest = max(1, min(nTest, len(members)-1))
		testIdx = append(testIdx, members[:nTest]...)
		trainIdx = append(trainIdx, members[nTest:]...)
	}
	rng.Shuffle(len(trainIdx), func(i, j int) {
		trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
	})

	var s split
	for _, i := range trainIdx {
		s.trainDocs = append(s.trainDocs, docs[i])
		s.trainLabels = append(s.trainLabels, labels[i])
	}
	for _, i := range testIdx {
		s.testDocs = append(s.testDocs, docs[i])
		s.testLabels = append(s.testLabels, labels[i])
	}
	return s
}
