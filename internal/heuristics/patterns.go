package heuristics

import (
	"fmt"
	"strings"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/textproc"
)

const (
	scientificBonus    = 0.02
	scientificBonusCap = 0.05
)

type phraseGroup struct {
	label   string
	penalty float64
	phrases []string
}

var (
	suspiciousGroups = []phraseGroup{
		{
			label:   "Clickbait language",
			penalty: -0.2,
			phrases: []string{
				"you won't believe", "shocking truth", "doctors hate him",
				"one weird trick", "this will blow your mind", "secret they don't want",
			},
		},
		{
			label:   "Conspiracy language",
			penalty: -0.25,
			phrases: []string{
				"mainstream media", "cover up", "they don't want you to know",
				"big pharma", "government conspiracy", "wake up sheeple",
			},
		},
		{
			label:   "Fake science language",
			penalty: -0.3,
			phrases: []string{
				"scientists baffled", "doctors shocked", "breakthrough discovery",
				"hidden by scientists", "secret research", "banned study",
				"confirms existence", "sudden change", "rare mineral",
			},
		},
		{
			label:   "Sensational language",
			penalty: -0.15,
			phrases: []string{
				"breaking", "explosive", "bombshell", "leaked", "exposed",
				"shocking revelation", "insider reveals", "exclusive",
			},
		},
	}
	scientificPhrases = []string{
		"peer reviewed", "clinical trial", "published in journal",
		"systematic review", "meta-analysis", "randomized controlled",
	}
)

type compiledPhrase struct {
	label    string
	original string
	match    string
	penalty  float64
}

// PatternScorer looks for suspicious and scientific phrasing in normalized text.
// Phrases are normalized at construction so they line up with classifier input.
type PatternScorer struct {
	suspicious []compiledPhrase
	scientific []compiledPhrase
}

var _ ports.PatternScorer = (*PatternScorer)(nil)

// NewPatternScorer compiles the built-in phrase tables.
func NewPatternScorer() *PatternScorer {
	p := &PatternScorer{}
	for _, group := range suspiciousGroups {
		for _, phrase := range group.phrases {
			if c, ok := compile(group.label, phrase, group.penalty); ok {
				p.suspicious = append(p.suspicious, c)
			}
		}
	}
	for _, phrase := range scientificPhrases {
		if c, ok := compile("Scientific language", phrase, 0); ok {
			p.scientific = append(p.scientific, c)
		}
	}
	return p
}

func compile(label, phrase string, penalty float64) (compiledPhrase, bool) {
	norm := textproc.Normalize(phrase)
	if norm == "" {
		return compiledPhrase{}, false
	}
	return compiledPhrase{label: label, original: phrase, match: " " + norm + " ", penalty: penalty}, true
}

// PhraseCount is the number of usable phrases across all tables.
func (p *PatternScorer) PhraseCount() int {
	return len(p.suspicious) + len(p.scientific)
}

// Score sums the penalties of every suspicious phrase found and adds a small,
// capped bonus for scientific phrasing.
func (p *PatternScorer) Score(normalizedText string) domain.PatternAnalysis {
	padded := " " + normalizedText + " "
	patterns := []string{}
	var adjustment float64

	for _, c := range p.suspicious {
		if strings.Contains(padded, c.match) {
			patterns = append(patterns, fmt.Sprintf("%s: '%s'", c.label, c.original))
			adjustment += c.penalty
		}
	}

	var scientific int
	for _, c := range p.scientific {
		if strings.Contains(padded, c.match) {
			scientific++
			patterns = append(patterns, fmt.Sprintf("%s: '%s'", c.label, c.original))
		}
	}
	if scientific > 0 {
		adjustment += min(scientificBonusCap, float64(scientific)*scientificBonus)
	}

	return domain.PatternAnalysis{
		Patterns:      patterns,
		Adjustment:    adjustment,
		TotalPatterns: len(patterns),
	}
}
