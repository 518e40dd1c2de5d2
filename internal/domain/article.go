package domain

import (
	"fmt"
	"strings"
)

// Label is the binary verdict assigned to an article.
type Label string

const (
	LabelFake Label = "FAKE"
	LabelReal Label = "REAL"
)

// Labels lists the class space in index order (0 = FAKE, 1 = REAL).
var Labels = [2]Label{LabelFake, LabelReal}

// ParseLabel accepts the two recognized label spellings, case-insensitively.
func ParseLabel(value string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(LabelFake):
		return LabelFake, nil
	case string(LabelReal):
		return LabelReal, nil
	default:
		return "", fmt.Errorf("unknown label %q", value)
	}
}

// Index returns the class index of the label, or -1 when it is not recognized.
func (l Label) Index() int {
	switch l {
	case LabelFake:
		return 0
	case LabelReal:
		return 1
	default:
		return -1
	}
}

// Valid reports whether the label is one of FAKE or REAL.
func (l Label) Valid() bool {
	return l.Index() >= 0
}

// Article is the unit of classification.
type Article struct {
	Title   string
	Text    string
	Subject string
	// Source is the declared outlet name or URL; credibility scoring falls back to Title.
	Source string
	URL    string
}

// Validate enforces the boundary rule that title and text cannot both be empty.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" && strings.TrimSpace(a.Text) == "" {
		return fmt.Errorf("%w: title and text are both empty", ErrInvalidArticle)
	}
	return nil
}

// CredibilityKey is the value handed to the source-credibility scorer.
func (a Article) CredibilityKey() string {
	if s := strings.TrimSpace(a.Source); s != "" {
		return s
	}
	return a.Title
}

// LabeledArticle is one training record.
type LabeledArticle struct {
	Article Article
	Label   Label
}

// DatasetStats summarizes a labeled corpus for the analytics dashboard.
type DatasetStats struct {
	TotalArticles  int            `json:"total_articles"`
	FakeArticles   int            `json:"fake_articles"`
	RealArticles   int            `json:"real_articles"`
	Subjects       map[string]int `json:"subjects"`
	AvgTextLength  float64        `json:"avg_text_length"`
	AvgTitleLength float64        `json:"avg_title_length"`
}
