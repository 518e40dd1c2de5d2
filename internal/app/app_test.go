package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/infrastructure/artifacts"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/usecase/usecasetest"
)

func writeCorpus(t *testing.T, dir string) (string, string) {
	t.Helper()

	paths := map[domain.Label]string{
		domain.LabelFake: filepath.Join(dir, "Fake.csv"),
		domain.LabelReal: filepath.Join(dir, "True.csv"),
	}
	writers := map[domain.Label]*csv.Writer{}
	for label, path := range paths {
		f, err := os.Create(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })
		w := csv.NewWriter(f)
		require.NoError(t, w.Write([]string{"title", "text", "subject", "date"}))
		writers[label] = w
	}
	for _, la := range usecasetest.Corpus(20) {
		require.NoError(t, writers[la.Label].Write([]string{la.Article.Title, la.Article.Text, la.Article.Subject, "January 1, 2017"}))
	}
	for _, w := range writers {
		w.Flush()
		require.NoError(t, w.Error())
	}
	return paths[domain.LabelFake], paths[domain.LabelReal]
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	fakePath, truePath := writeCorpus(t, dir)

	fixture := usecasetest.TrainerConfig()
	cfg := config.Default()
	cfg.Model.ArtifactDir = filepath.Join(dir, "artifacts")
	cfg.Corpus.FakePath = fakePath
	cfg.Corpus.TruePath = truePath
	cfg.Corpus.SampleSize = 0
	cfg.Training.Vectorizer = fixture.Vectorizer
	cfg.Training.Tree = fixture.Tree
	cfg.Training.Forest = fixture.Forest
	cfg.HTTP.AllowedOrigins = nil
	return cfg
}

func TestTrainPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	application, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	trained, err := application.Train(ctx)
	require.NoError(t, err)
	assert.FileExists(t, artifacts.NewFileStore(cfg.Model.ArtifactDir).Path())

	cfg.Model.TrainOnStartup = false
	restarted, err := New(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = restarted.Close() })

	result, err := restarted.Predict(ctx, domain.Article{
		Title: "Shocking secret the government hides about vaccines",
		Text:  "Wake up people, the mainstream media will never tell you this shocking truth.",
	}, domain.ModePureML)
	require.NoError(t, err)
	assert.Equal(t, trained.Version, result.ModelVersion)
	assert.Equal(t, domain.LabelFake, result.Prediction)
}

func TestPredictWithoutArtifactsOrTraining(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.TrainOnStartup = false

	application, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	_, err = application.Predict(context.Background(), domain.Article{Title: "x"}, domain.ModeEnhanced)
	require.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestHandlerServesHealthAfterTraining(t *testing.T) {
	ctx := context.Background()
	application, err := New(ctx, testConfig(t), logging.Discard())
	require.NoError(t, err)

	_, err = application.Train(ctx)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler(ctx))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, true, body["model_ready"])

	metricsRes, err := http.Get(srv.URL + "/debug/metrics")
	require.NoError(t, err)
	defer metricsRes.Body.Close()
	assert.Equal(t, http.StatusOK, metricsRes.StatusCode)
}

func TestImportCorpusRequiresDatabase(t *testing.T) {
	application, err := New(context.Background(), testConfig(t), logging.Discard())
	require.NoError(t, err)

	_, err = application.ImportCorpus(context.Background(), "a.csv", "b.csv")
	require.ErrorIs(t, err, domain.ErrConfig)
}

func TestNewRejectsInvalidFusion(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inference.MaxShift = 2

	_, err := New(context.Background(), cfg, logging.Discard())
	require.ErrorIs(t, err, domain.ErrConfig)
}
