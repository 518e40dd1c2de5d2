package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/ports"
)

// Job states reported by JobStatus.
const (
	JobIdle      = "idle"
	JobRunning   = "running"
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// Training outcomes passed to Telemetry.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// JobStatus describes the last or current retrain job.
type JobStatus struct {
	ID           string     `json:"id,omitempty"`
	State        string     `json:"state"`
	Trigger      string     `json:"trigger,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Error        string     `json:"error,omitempty"`
	ModelVersion string     `json:"model_version,omitempty"`
}

// ServiceDeps wires all driven adapters into the model lifecycle service.
type ServiceDeps struct {
	Corpus    ports.CorpusSource
	Store     ports.ArtifactStore
	Notifier  ports.Notifier
	Telemetry ports.Telemetry
}

// Service owns the model lifecycle: initial load, retraining and reload. It is
// the only writer of the model handle.
type Service struct {
	handle    *model.Handle
	trainer   *Trainer
	corpus    ports.CorpusSource
	store     ports.ArtifactStore
	notifier  ports.Notifier
	telemetry ports.Telemetry
	logger    *slog.Logger
	now       func() time.Time

	training  sync.Mutex
	publishMu sync.Mutex

	statusMu sync.RWMutex
	status   JobStatus
}

// NewService constructs the lifecycle service.
func NewService(handle *model.Handle, trainer *Trainer, deps ServiceDeps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		handle:    handle,
		trainer:   trainer,
		corpus:    deps.Corpus,
		store:     deps.Store,
		notifier:  deps.Notifier,
		telemetry: deps.Telemetry,
		logger:    logger,
		now:       time.Now,
		status:    JobStatus{State: JobIdle},
	}
}

// Handle exposes the model handle for read-only consumers.
func (s *Service) Handle() *model.Handle {
	return s.handle
}

// Initialize loads persisted artifacts. When none exist, or they are corrupt, and
// trainIfMissing is set, it trains from the corpus instead.
func (s *Service) Initialize(ctx context.Context, trainIfMissing bool) error {
	err := s.Reload(ctx)
	if err == nil {
		return nil
	}

	recoverable := errors.Is(err, domain.ErrArtifactNotFound) || errors.Is(err, domain.ErrArtifactCorrupt)
	if !recoverable || !trainIfMissing {
		return err
	}

	s.logger.Warn("no usable artifacts, training on startup", "error", err)
	_, err = s.Retrain(ctx, "startup")
	return err
}

// Reload replaces the serving model with the stored artifacts. On any failure the
// previous model keeps serving.
func (s *Service) Reload(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrArtifactNotFound
	}
	m, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	if !s.publishIfNewer(m) {
		s.logger.Info("stored model is older than the serving one, keeping current",
			"stored", m.Version, "serving", s.handle.Load().Version)
		return nil
	}
	s.logger.Info("model loaded", "version", m.Version, "trained_at", m.TrainedAt)
	return nil
}

// Retrain trains synchronously and publishes the result. A concurrent call fails
// with domain.ErrTrainingInProgress.
func (s *Service) Retrain(ctx context.Context, trigger string) (*model.Model, error) {
	if !s.training.TryLock() {
		return nil, domain.ErrTrainingInProgress
	}
	defer s.training.Unlock()

	id := s.begin(trigger)
	m, err := s.retrain(ctx)
	s.finish(id, m, err)
	return m, err
}

// StartRetrain launches a retrain in the background and returns its initial status.
func (s *Service) StartRetrain(ctx context.Context, trigger string) (JobStatus, error) {
	if !s.training.TryLock() {
		return s.Status(), domain.ErrTrainingInProgress
	}

	id := s.begin(trigger)
	go func() {
		defer s.training.Unlock()
		m, err := s.retrain(ctx)
		s.finish(id, m, err)
	}()
	return s.Status(), nil
}

// Status returns a copy of the current job status.
func (s *Service) Status() JobStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// DatasetStats summarizes the configured corpus.
func (s *Service) DatasetStats(ctx context.Context) (domain.DatasetStats, error) {
	if s.corpus == nil {
		return domain.DatasetStats{}, domain.ErrNoCorpus
	}
	articles, err := s.corpus.Load(ctx)
	if err != nil {
		return domain.DatasetStats{}, fmt.Errorf("load corpus: %w", err)
	}
	return ComputeDatasetStats(articles), nil
}

func (s *Service) retrain(ctx context.Context) (*model.Model, error) {
	started := s.now()

	m, err := s.trainAndPersist(ctx)
	if s.telemetry != nil {
		outcome := outcomeSuccess
		if err != nil {
			outcome = outcomeFailure
		}
		s.telemetry.ObserveTraining(outcome, s.now().Sub(started))
	}
	if err != nil {
		s.logger.Error("retrain failed", "error", err)
		return nil, err
	}

	s.publish(m)
	s.notify(ctx, m)
	return m, nil
}

func (s *Service) trainAndPersist(ctx context.Context) (*model.Model, error) {
	if s.corpus == nil {
		return nil, domain.NewStageError(domain.StageLoad, fmt.Errorf("%w: %w", domain.ErrTraining, domain.ErrNoCorpus))
	}
	articles, err := s.corpus.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoCorpus) {
			err = fmt.Errorf("%w: %w", domain.ErrTraining, err)
		}
		return nil, domain.NewStageError(domain.StageLoad, err)
	}
	s.logger.Info("corpus loaded", "articles", len(articles))

	m, err := s.trainer.Train(ctx, articles)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, m); err != nil {
			return nil, domain.NewStageError(domain.StagePersist, err)
		}
	}
	return m, nil
}

func (s *Service) publish(m *model.Model) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.swap(m)
}

// publishIfNewer publishes m unless the serving model was trained after it.
func (s *Service) publishIfNewer(m *model.Model) bool {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if current := s.handle.Load(); current != nil && m.TrainedAt.Before(current.TrainedAt) {
		return false
	}
	s.swap(m)
	return true
}

func (s *Service) swap(m *model.Model) {
	previous := s.handle.Store(m)
	if previous != nil && previous.Version != m.Version {
		s.logger.Info("model swapped", "from", previous.Version, "to", m.Version)
	}
	if s.telemetry != nil {
		s.telemetry.SetModel(m.Version, m.Metrics)
	}
}

func (s *Service) notify(ctx context.Context, m *model.Model) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishReport(ctx, BuildTrainingReport(m)); err != nil {
		s.logger.Warn("publish training report failed", "error", err)
	}
}

func (s *Service) begin(trigger string) string {
	now := s.now().UTC()
	id := uuid.NewString()
	s.statusMu.Lock()
	s.status = JobStatus{ID: id, State: JobRunning, Trigger: trigger, StartedAt: &now}
	s.statusMu.Unlock()
	return id
}

func (s *Service) finish(id string, m *model.Model, err error) {
	now := s.now().UTC()
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if s.status.ID != id {
		return
	}
	s.status.FinishedAt = &now
	if err != nil {
		s.status.State = JobFailed
		s.status.Error = err.Error()
		return
	}
	s.status.State = JobSucceeded
	s.status.ModelVersion = m.Version
}

// BuildTrainingReport renders a short plain-text summary of a trained model.
func BuildTrainingReport(m *model.Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model %s trained at %s\n", m.Version, m.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Samples: %d train / %d test, vocabulary %d\n", m.TrainSamples, m.TestSamples, m.Vectorizer.Dim())
	for _, name := range []string{domain.DecisionTreeName, domain.RandomForestName} {
		metrics, ok := m.Metrics[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: accuracy %.4f, precision %.4f, recall %.4f, F1 %.4f\n",
			name, metrics.TestAccuracy, metrics.Precision, metrics.Recall, metrics.F1Score)
	}
	return b.String()
}
