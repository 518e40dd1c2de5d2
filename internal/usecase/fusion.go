package usecase

import (
	"fmt"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
)

// FusionConfig weights the heuristic signals against the forest output.
type FusionConfig struct {
	CredibilityWeight float64
	PatternWeight     float64
	MaxShift          float64
}

// DefaultFusionConfig returns the production weights.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{CredibilityWeight: 0.2, PatternWeight: 0.25, MaxShift: 0.35}
}

// Validate rejects negative weights and a shift that could exceed the probability range.
func (c FusionConfig) Validate() error {
	if c.CredibilityWeight < 0 || c.PatternWeight < 0 {
		return fmt.Errorf("%w: fusion weights must be non-negative", domain.ErrConfig)
	}
	if c.MaxShift < 0 || c.MaxShift > 1 {
		return fmt.Errorf("%w: maxShift must be in [0, 1], got %g", domain.ErrConfig, c.MaxShift)
	}
	return nil
}

// Fusion is the blended outcome of one ENHANCED prediction.
type Fusion struct {
	Label         domain.Label
	Confidence    float64
	Probabilities domain.Probabilities
	Details       domain.EnhancementDetails
}

// Fuse shifts P(REAL) by the weighted heuristic signals. The label only changes
// when the shift carries P(REAL) across 0.5; exactly 0.5 keeps the forest label.
func Fuse(base classifier.Prediction, cred domain.Credibility, patterns domain.PatternAnalysis, cfg FusionConfig) Fusion {
	credAdj := cfg.CredibilityWeight * (cred.Score - 0.5)
	patternAdj := cfg.PatternWeight * patterns.Adjustment
	shift := clamp(credAdj+patternAdj, -cfg.MaxShift, cfg.MaxShift)
	pReal := clamp(base.ProbReal+shift, 0, 1)

	label := base.Label
	switch {
	case pReal > 0.5:
		label = domain.LabelReal
	case pReal < 0.5:
		label = domain.LabelFake
	}

	probs := domain.Probabilities{Fake: 1 - pReal, Real: pReal}
	confidence := probs.Of(label)

	return Fusion{
		Label:         label,
		Confidence:    confidence,
		Probabilities: probs,
		Details: domain.EnhancementDetails{
			Mode:                  domain.ModeEnhanced,
			BaseMLConfidence:      base.Confidence(),
			SourceCredibility:     cred.Score,
			CredibilityAdjustment: credAdj,
			PatternAdjustment:     patterns.Adjustment,
			WeightedPatternShift:  patternAdj,
			TotalShift:            shift,
			FinalConfidence:       confidence,
			LabelFlipped:          label != base.Label,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
