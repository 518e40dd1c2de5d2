package heuristics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/textproc"
)

func TestCredibilityScore(t *testing.T) {
	t.Parallel()

	scorer := NewCredibilityScorer()
	cases := []struct {
		name     string
		source   string
		score    float64
		category string
	}{
		{name: "empty", source: "", score: 0.5, category: CategoryMedium},
		{name: "trusted url", source: "https://www.bbc.com/news/world", score: 0.8, category: CategoryVeryHigh},
		{name: "fact checker url", source: "see https://www.snopes.com/fact-check/x", score: 0.9, category: CategoryVeryHigh},
		{name: "official url", source: "https://www.cdc.gov/flu", score: 0.85, category: CategoryVeryHigh},
		{name: "bare agency domain", source: "reuters.com", score: 1, category: CategoryVeryHigh},
		{name: "attribution", source: "Local paper, according to officials", score: 0.55, category: CategoryMedium},
		{name: "sensational and unverified", source: "BREAKING: insider source says", score: 0.15, category: CategoryVeryLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := scorer.Score(tc.source)
			assert.InDelta(t, tc.score, got.Score, 1e-9)
			assert.Equal(t, tc.category, got.Category)
			assert.NotNil(t, got.Factors)
		})
	}
}

func TestCategoryBands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryVeryHigh, Category(0.8))
	assert.Equal(t, CategoryHigh, Category(0.65))
	assert.Equal(t, CategoryMedium, Category(0.45))
	assert.Equal(t, CategoryLow, Category(0.3))
	assert.Equal(t, CategoryVeryLow, Category(0.29))
}

func TestPatternScorerFlagsSuspiciousPhrasing(t *testing.T) {
	t.Parallel()

	scorer := NewPatternScorer()
	got := scorer.Score(textproc.Normalize("The mainstream media will not tell you about Big Pharma and their cover up"))

	assert.Contains(t, got.Patterns, "Conspiracy language: 'big pharma'")
	assert.Contains(t, got.Patterns, "Conspiracy language: 'mainstream media'")
	assert.Contains(t, got.Patterns, "Conspiracy language: 'cover up'")
	assert.InDelta(t, -0.75, got.Adjustment, 1e-9)
	assert.Equal(t, len(got.Patterns), got.TotalPatterns)
}

func TestPatternScorerMatchesInflectedForms(t *testing.T) {
	t.Parallel()

	scorer := NewPatternScorer()
	got := scorer.Score(textproc.Normalize("Documents LEAKED to the press"))
	assert.Contains(t, got.Patterns, "Sensational language: 'leaked'")
	assert.Less(t, got.Adjustment, 0.0)
}

func TestPatternScorerCapsScientificBonus(t *testing.T) {
	t.Parallel()

	scorer := NewPatternScorer()
	got := scorer.Score(textproc.Normalize("A peer reviewed clinical trial and a systematic review"))

	assert.Equal(t, 3, got.TotalPatterns)
	assert.InDelta(t, 0.05, got.Adjustment, 1e-9)
}

func TestPatternScorerNeutralText(t *testing.T) {
	t.Parallel()

	scorer := NewPatternScorer()
	got := scorer.Score(textproc.Normalize("The committee approved the annual budget on Tuesday"))
	assert.Empty(t, got.Patterns)
	assert.Zero(t, got.Adjustment)
	assert.Positive(t, scorer.PhraseCount())
}

func TestCannedFactChecker(t *testing.T) {
	t.Parallel()

	checker := NewCannedFactChecker()
	hits, err := checker.Lookup(context.Background(), "New MIRACLE CURE found, doctors hate it")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "FALSE", h.Rating)
		assert.InDelta(t, 0.8, h.Confidence, 1e-9)
	}

	hits, err = checker.Lookup(context.Background(), "Senate passes the budget")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
