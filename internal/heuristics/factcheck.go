package heuristics

import (
	"context"
	"fmt"
	"strings"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

var debunkedPatterns = []string{
	"miracle cure", "doctors hate", "secret revealed", "they don't want you to know",
	"banned by government", "suppressed by media", "big pharma conspiracy",
	"scientists discover", "breaking discovery", "hidden truth", "exposed",
	"confirms existence", "sudden climate change", "rare mineral", "alien",
	"government cover up", "conspiracy theorists", "leaked document", "insider reveals",
}

// CannedFactChecker matches claims against phrases that fact-checkers have
// repeatedly debunked. It never fails.
type CannedFactChecker struct {
	patterns []string
}

var _ ports.FactChecker = (*CannedFactChecker)(nil)

// NewCannedFactChecker returns a checker over the built-in phrase list.
func NewCannedFactChecker() *CannedFactChecker {
	return &CannedFactChecker{patterns: debunkedPatterns}
}

// Lookup returns one FALSE-rated hit per matching phrase.
func (c *CannedFactChecker) Lookup(_ context.Context, claim string) ([]domain.FactCheck, error) {
	lower := strings.ToLower(claim)
	var hits []domain.FactCheck
	for _, pattern := range c.patterns {
		if !strings.Contains(lower, pattern) {
			continue
		}
		hits = append(hits, domain.FactCheck{
			Claim:      fmt.Sprintf("Similar claims about '%s' have been debunked", pattern),
			Rating:     "FALSE",
			Source:     "Multiple fact-checkers",
			Confidence: 0.8,
		})
	}
	return hits, nil
}
