// Package heuristics holds the rule tables that complement the classifiers:
// source credibility, suspicious phrasing and canned fact checks.
package heuristics

import (
	"fmt"
	"regexp"
	"strings"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// Credibility categories, highest first.
const (
	CategoryVeryHigh = "Very High"
	CategoryHigh     = "High"
	CategoryMedium   = "Medium"
	CategoryLow      = "Low"
	CategoryVeryLow  = "Very Low"
)

var urlExpr = regexp.MustCompile(`https?://(?:www\.)?([^/\s]+)`)

var (
	defaultTrusted = []string{
		"bbc.com", "bbc.co.uk", "reuters.com", "ap.org", "apnews.com",
		"npr.org", "pbs.org", "cnn.com", "nytimes.com", "washingtonpost.com",
		"theguardian.com", "wsj.com", "bloomberg.com", "abcnews.go.com",
		"cbsnews.com", "nbcnews.com", "usatoday.com", "time.com",
		"newsweek.com", "economist.com", "ft.com", "latimes.com",
	}
	defaultFactCheckers = []string{
		"snopes.com", "factcheck.org", "politifact.com", "fullfact.org",
		"checkyourfact.com", "factcheck.afp.com", "leadstories.com",
	}
	defaultOfficial = []string{
		"gov.uk", "gov.ca", "cdc.gov", "who.int", "nasa.gov",
		"nih.gov", "fda.gov", "epa.gov", "state.gov",
	}
	majorAgencies      = []string{"bbc", "reuters", "associated press", "ap news"}
	attributionPhrases = []string{"according to", "reported by", "study by"}
	sensationalPhrases = []string{"breaking:", "shocking", "you won't believe"}
	unverifiedPhrases  = []string{"insider source", "anonymous tip", "rumor has it"}
)

// CredibilityScorer rates a source string against domain and phrase tables.
type CredibilityScorer struct {
	trusted      []string
	factCheckers []string
	official     []string
}

var _ ports.CredibilityScorer = (*CredibilityScorer)(nil)

// NewCredibilityScorer returns a scorer over the built-in tables.
func NewCredibilityScorer() *CredibilityScorer {
	return &CredibilityScorer{
		trusted:      defaultTrusted,
		factCheckers: defaultFactCheckers,
		official:     defaultOfficial,
	}
}

// TableSizes reports how many domains each table holds.
func (c *CredibilityScorer) TableSizes() map[string]int {
	return map[string]int{
		"trusted_sources":  len(c.trusted),
		"fact_checkers":    len(c.factCheckers),
		"official_sources": len(c.official),
	}
}

// Score starts at 0.5, applies the domain and phrase adjustments and clamps to [0, 1].
func (c *CredibilityScorer) Score(source string) domain.Credibility {
	lower := strings.ToLower(strings.TrimSpace(source))
	score := 0.5
	factors := []string{}

	for _, host := range hosts(lower) {
		switch {
		case containsAny(host, c.trusted):
			score += 0.3
			factors = append(factors, fmt.Sprintf("Trusted source: %s", host))
		case containsAny(host, c.factCheckers):
			score += 0.4
			factors = append(factors, fmt.Sprintf("Fact-checking organization: %s", host))
		case containsAny(host, c.official):
			score += 0.35
			factors = append(factors, fmt.Sprintf("Official source: %s", host))
		}
	}

	for _, agency := range majorAgencies {
		if strings.HasPrefix(lower, agency) {
			score += 0.2
			factors = append(factors, "Major news agency as source")
			break
		}
	}
	if phraseIn(lower, attributionPhrases) {
		score += 0.05
		factors = append(factors, "Attribution present")
	}
	if phraseIn(lower, sensationalPhrases) {
		score -= 0.2
		factors = append(factors, "Sensational language detected")
	}
	if phraseIn(lower, unverifiedPhrases) {
		score -= 0.15
		factors = append(factors, "Unverified source indicators")
	}

	score = max(0, min(1, score))
	return domain.Credibility{Score: score, Factors: factors, Category: Category(score)}
}

// Category maps a score to its band.
func Category(score float64) string {
	switch {
	case score >= 0.8:
		return CategoryVeryHigh
	case score >= 0.65:
		return CategoryHigh
	case score >= 0.45:
		return CategoryMedium
	case score >= 0.3:
		return CategoryLow
	default:
		return CategoryVeryLow
	}
}

// hosts extracts hostnames from URLs in s. A bare "example.com" source counts as one host.
func hosts(s string) []string {
	matches := urlExpr.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		if strings.Contains(s, ".") && !strings.ContainsAny(s, " \t\n") {
			return []string{strings.TrimPrefix(s, "www.")}
		}
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func containsAny(host string, table []string) bool {
	for _, entry := range table {
		if strings.Contains(host, entry) {
			return true
		}
	}
	return false
}

func phraseIn(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
