package domain

import "time"

// Mode selects between the blended and the raw classifier output.
type Mode string

const (
	ModeEnhanced Mode = "enhanced"
	ModePureML   Mode = "pure_ml"
)

// Verification method strings surfaced in the analysis block.
const (
	VerificationEnhanced = "Enhanced Multi-Source Analysis"
	VerificationPureML   = "Pure ML Dataset-Based Analysis"
)

// Probabilities holds the class distribution of one prediction.
type Probabilities struct {
	Fake float64 `json:"FAKE"`
	Real float64 `json:"REAL"`
}

// Of returns the probability assigned to label.
func (p Probabilities) Of(label Label) float64 {
	if label == LabelReal {
		return p.Real
	}
	return p.Fake
}

// FeatureWeight is one term and its contribution weight.
type FeatureWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Credibility is the output of the source-credibility scorer.
type Credibility struct {
	Score    float64  `json:"score"`
	Factors  []string `json:"factors"`
	Category string   `json:"category"`
}

// PatternAnalysis is the output of the pattern heuristic scorer.
type PatternAnalysis struct {
	Patterns      []string `json:"patterns"`
	Adjustment    float64  `json:"credibility_adjustment"`
	TotalPatterns int      `json:"total_patterns"`
}

// FactCheck is one fact-check lookup hit.
type FactCheck struct {
	Claim      string  `json:"claim"`
	Rating     string  `json:"rating"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	URL        string  `json:"url,omitempty"`
}

// Analysis carries the explanatory detail of a prediction.
type Analysis struct {
	DecisionTreePrediction Label           `json:"decision_tree_prediction"`
	DecisionTreeConfidence float64         `json:"decision_tree_confidence"`
	RandomForestPrediction Label           `json:"random_forest_prediction"`
	RandomForestConfidence float64         `json:"random_forest_confidence"`
	TopFeatures            []FeatureWeight `json:"top_features"`
	TextLength             int             `json:"text_length"`
	WordCount              int             `json:"word_count"`
	ProcessedTextPreview   string          `json:"processed_text_preview"`
	VerificationMethod     string          `json:"verification_method"`

	SourceCredibility *Credibility     `json:"source_credibility,omitempty"`
	PatternAnalysis   *PatternAnalysis `json:"pattern_analysis,omitempty"`
	FactChecksFound   int              `json:"fact_checks_found"`
	FactChecks        []FactCheck      `json:"fact_checks,omitempty"`
}

// EnhancementDetails is the auditable fusion breakdown.
type EnhancementDetails struct {
	Mode                  Mode    `json:"mode"`
	BaseMLConfidence      float64 `json:"base_ml_confidence"`
	EnhancementsBypassed  bool    `json:"enhancements_bypassed"`
	SourceCredibility     float64 `json:"source_credibility_score"`
	CredibilityAdjustment float64 `json:"credibility_adjustment"`
	PatternAdjustment     float64 `json:"pattern_adjustment"`
	WeightedPatternShift  float64 `json:"weighted_pattern_adjustment"`
	TotalShift            float64 `json:"total_shift"`
	FinalConfidence       float64 `json:"final_confidence"`
	LabelFlipped          bool    `json:"label_flipped"`
}

// PredictionResult is the per-request output of the detector.
type PredictionResult struct {
	ID                 string             `json:"id"`
	Prediction         Label              `json:"prediction"`
	Confidence         float64            `json:"confidence"`
	Probabilities      Probabilities      `json:"probabilities"`
	Analysis           Analysis           `json:"analysis"`
	ModelMetrics       ModelMetrics       `json:"model_metrics"`
	EnhancementDetails EnhancementDetails `json:"enhancement_details"`
	ModelVersion       string             `json:"model_version"`
	CreatedAt          time.Time          `json:"created_at"`
}

// PredictionRecord is the persisted audit row of a prediction.
type PredictionRecord struct {
	ID           string
	Title        string
	Source       string
	Mode         Mode
	Prediction   Label
	Confidence   float64
	BaseML       float64
	ModelVersion string
	CreatedAt    time.Time
}

// PredictionSummary aggregates the prediction history for the dashboard.
type PredictionSummary struct {
	Total         int              `json:"total"`
	ByLabel       map[string]int   `json:"by_label"`
	ByMode        map[string]int   `json:"by_mode"`
	AvgConfidence float64          `json:"avg_confidence"`
	Recent        []RecentSnapshot `json:"recent"`
}

// RecentSnapshot is a compact row of the recent predictions list.
type RecentSnapshot struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Prediction Label     `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Mode       Mode      `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
}
