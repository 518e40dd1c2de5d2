package classifier

import (
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

// Evaluate scores model on the held-out partition and records train accuracy.
// Precision, recall and F1 use FAKE as the positive label.
func Evaluate(model Model, trainX []features.Vector, trainY []domain.Label, testX []features.Vector, testY []domain.Label) domain.EvaluationMetrics {
	var m domain.EvaluationMetrics

	m.TrainAccuracy = accuracy(model, trainX, trainY)

	for i, x := range testX {
		actual := testY[i].Index()
		predicted := model.Predict(x).Label.Index()
		m.ConfusionMatrix[actual][predicted]++
		m.Support[actual]++
	}

	cm := m.ConfusionMatrix
	total := cm[0][0] + cm[0][1] + cm[1][0] + cm[1][1]
	if total > 0 {
		m.TestAccuracy = float64(cm[0][0]+cm[1][1]) / float64(total)
	}

	tp, fp, fn := float64(cm[0][0]), float64(cm[1][0]), float64(cm[0][1])
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func accuracy(model Model, xs []features.Vector, ys []domain.Label) float64 {
	if len(xs) == 0 {
		return 0
	}
	var correct int
	for i, x := range xs {
		if model.Predict(x).Label == ys[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(xs))
}
