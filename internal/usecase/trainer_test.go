package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/textproc"
	"FakeNewsDetector/internal/usecase"
	"FakeNewsDetector/internal/usecase/usecasetest"
)

func newTrainer(cfg usecase.TrainerConfig) *usecase.Trainer {
	return usecase.NewTrainer(cfg, logging.Discard())
}

func TestTrainProducesConsistentModel(t *testing.T) {
	m, err := newTrainer(usecasetest.TrainerConfig()).Train(context.Background(), usecasetest.Corpus(20))
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.NotEmpty(t, m.Version)
	assert.Equal(t, 40, m.TrainSamples+m.TestSamples)
	assert.Equal(t, 8, m.TestSamples)
	assert.Equal(t, m.Vectorizer.Dim(), m.Tree.Dim)
	assert.Equal(t, m.Vectorizer.Dim(), m.Forest.Dim)
	assert.Len(t, m.Forest.Trees, usecasetest.TrainerConfig().Forest.Trees)

	for _, name := range []string{domain.DecisionTreeName, domain.RandomForestName} {
		metrics, ok := m.Metrics[name]
		require.True(t, ok, name)
		assert.Equal(t, [2]int{4, 4}, metrics.Support)
		total := 0
		for _, row := range metrics.ConfusionMatrix {
			total += row[0] + row[1]
		}
		assert.Equal(t, m.TestSamples, total)
		assert.GreaterOrEqual(t, metrics.TestAccuracy, 0.0)
		assert.LessOrEqual(t, metrics.TestAccuracy, 1.0)
	}
}

func TestTrainIsDeterministicForSeed(t *testing.T) {
	cfg := usecasetest.TrainerConfig()
	cfg.Seed = 1234

	first, err := newTrainer(cfg).Train(context.Background(), usecasetest.Corpus(20))
	require.NoError(t, err)
	cfg.Forest.Workers = 1
	second, err := newTrainer(cfg).Train(context.Background(), usecasetest.Corpus(20))
	require.NoError(t, err)

	assert.NotEqual(t, first.Version, second.Version)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Vectorizer.Terms, second.Vectorizer.Terms)
	assert.Equal(t, first.Tree.Nodes, second.Tree.Nodes)

	doc := textproc.NormalizeArticle("Miracle cure revealed", "the elites are furious", "")
	assert.Equal(t,
		first.Forest.Predict(first.Vectorizer.Transform(doc)),
		second.Forest.Predict(second.Vectorizer.Transform(doc)))
}

func TestTrainZeroSeedPicksAndRecordsOne(t *testing.T) {
	cfg := usecasetest.TrainerConfig()
	cfg.Seed = 0

	m, err := newTrainer(cfg).Train(context.Background(), usecasetest.Corpus(10))
	require.NoError(t, err)
	assert.NotZero(t, m.Seed)
	assert.Equal(t, m.Seed, m.Forest.Seed)
}

func TestTrainRejectsBadCorpus(t *testing.T) {
	small := usecasetest.Corpus(10)
	var fewFake []domain.LabeledArticle
	fakes := 0
	for _, la := range small {
		if la.Label == domain.LabelFake {
			if fakes == 3 {
				continue
			}
			fakes++
		}
		fewFake = append(fewFake, la)
	}

	unknown := usecasetest.Corpus(10)
	unknown[3].Label = "SATIRE"

	for name, articles := range map[string][]domain.LabeledArticle{
		"too few fake":  fewFake,
		"unknown label": unknown,
		"empty":         nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTrainer(usecasetest.TrainerConfig()).Train(context.Background(), articles)
			require.ErrorIs(t, err, domain.ErrTraining)

			var stageErr *domain.StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, domain.StageValidate, stageErr.Stage)
		})
	}
}

func TestTrainRejectsInvalidConfig(t *testing.T) {
	cfg := usecasetest.TrainerConfig()
	cfg.TestFraction = 1

	_, err := newTrainer(cfg).Train(context.Background(), usecasetest.Corpus(10))
	require.ErrorIs(t, err, domain.ErrConfig)

	cfg = usecasetest.TrainerConfig()
	cfg.Vectorizer.MaxDF = 0
	_, err = newTrainer(cfg).Train(context.Background(), usecasetest.Corpus(10))
	require.ErrorIs(t, err, domain.ErrConfig)

	var stageErr *domain.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.StageVectorize, stageErr.Stage)
}

func TestTrainHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTrainer(usecasetest.TrainerConfig()).Train(ctx, usecasetest.Corpus(10))
	require.ErrorIs(t, err, context.Canceled)

	var stageErr *domain.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, domain.StageNormalize, stageErr.Stage)
}

// Fitting the vectorizer on held-out articles would leak test vocabulary into the
// model and inflate the reported accuracy. A term that occurs in exactly one
// article must enter the vocabulary only when that article is in the train
// partition, so the number of markers in the vocabulary equals TrainSamples.
func TestTrainDoesNotLeakTestArticlesIntoVocabulary(t *testing.T) {
	const consonants = "bcdfghkmnpqrtvwxz"
	marker := func(i int) string {
		return "zzmark" + string(consonants[i/len(consonants)]) + string(consonants[i%len(consonants)])
	}

	articles := usecasetest.Corpus(20)
	markers := make(map[string]bool, len(articles))
	for i := range articles {
		token := marker(i)
		normalized := textproc.Normalize(token)
		require.NotEmpty(t, normalized)
		require.False(t, markers[normalized], "marker %s collides after normalization", token)
		markers[normalized] = true
		articles[i].Article.Text += " " + token
	}

	cfg := usecasetest.TrainerConfig()
	cfg.Vectorizer.MaxFeatures = 100000
	m, err := newTrainer(cfg).Train(context.Background(), articles)
	require.NoError(t, err)

	inVocabulary := 0
	for term := range markers {
		if m.Vectorizer.Contains(term) {
			inVocabulary++
		}
	}
	assert.Equal(t, m.TrainSamples, inVocabulary)
	assert.Less(t, inVocabulary, len(articles))
}
