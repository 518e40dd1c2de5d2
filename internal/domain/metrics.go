package domain

// Classifier names used as keys of ModelMetrics.
const (
	DecisionTreeName = "Decision Tree"
	RandomForestName = "Random Forest"
)

// EvaluationMetrics is computed once per training run for one classifier.
// ConfusionMatrix rows are actual labels and columns predicted labels, both in FAKE, REAL order.
type EvaluationMetrics struct {
	TrainAccuracy   float64   `json:"train_accuracy"`
	TestAccuracy    float64   `json:"test_accuracy"`
	Precision       float64   `json:"precision"`
	Recall          float64   `json:"recall"`
	F1Score         float64   `json:"f1_score"`
	ConfusionMatrix [2][2]int `json:"confusion_matrix"`
	Support         [2]int    `json:"support"`
}

// ModelMetrics maps a classifier name to its metrics.
type ModelMetrics map[string]EvaluationMetrics
