package classifier

import (
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// Prediction is a class label with its probability pair.
type Prediction struct {
	Label    domain.Label
	ProbFake float64
	ProbReal float64
}

// Confidence is the probability of the predicted label.
func (p Prediction) Confidence() float64 {
	if p.Label == domain.LabelReal {
		return p.ProbReal
	}
	return p.ProbFake
}

func newPrediction(dist [2]float64) Prediction {
	label := domain.LabelFake
	if dist[1] > dist[0] {
		label = domain.LabelReal
	}
	return Prediction{Label: label, ProbFake: dist[0], ProbReal: dist[1]}
}

// Model is what both trained classifiers expose to the inference path.
type Model interface {
	Predict(v features.Vector) Prediction
	// Importances returns normalized global feature importances indexed by column.
	Importances() []float64
	// Contributions returns the impurity decrease accumulated per column along the
	// decision path(s) taken by v.
	Contributions(v features.Vector) map[int]float64
}

// Uninformed is the prediction for an input that carries no known features.
func Uninformed() Prediction {
	return newPrediction([2]float64{0.5, 0.5})
}
