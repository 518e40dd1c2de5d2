package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks invalid vectorizer or classifier parameters, including an empty corpus at fit time.
	ErrConfig = errors.New("invalid configuration")

	// ErrTraining marks insufficient or invalid labeled data.
	ErrTraining = errors.New("training failed")

	// ErrModelUnavailable is returned when inference is requested before any model is loaded.
	ErrModelUnavailable = errors.New("model unavailable: training must run first")

	// ErrArtifactCorrupt marks an unreadable or partial artifact bundle.
	ErrArtifactCorrupt = errors.New("artifact corrupt")

	// ErrArtifactNotFound is returned by stores that hold no artifacts yet.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNoCorpus is returned when no corpus source is configured or reachable.
	ErrNoCorpus = errors.New("no corpus available")

	// ErrTrainingInProgress rejects a second concurrent retrain.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrInvalidArticle marks request payloads that fail boundary validation.
	ErrInvalidArticle = errors.New("invalid article")
)

// Training stages reported by StageError.
const (
	StageLoad      = "load_corpus"
	StageValidate  = "validate"
	StageNormalize = "normalize"
	StageSplit     = "split"
	StageVectorize = "vectorize"
	StageFitTree   = "fit_tree"
	StageFitForest = "fit_forest"
	StageEvaluate  = "evaluate"
	StagePersist   = "persist"
)

// StageError names the training stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage name; nil stays nil.
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
