// Package features fits and applies the TF-IDF vectorizer shared by both classifiers.
package features

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"FakeNewsDetector/internal/domain"
)

// Config bounds the vocabulary and selects the weighting scheme.
type Config struct {
	MaxFeatures int     `yaml:"maxFeatures"`
	NgramMin    int     `yaml:"ngramMin"`
	NgramMax    int     `yaml:"ngramMax"`
	MinDF       int     `yaml:"minDf"`
	MaxDF       float64 `yaml:"maxDf"`
	SublinearTF bool    `yaml:"sublinearTf"`
	SmoothIDF   bool    `yaml:"smoothIdf"`
}

// DefaultConfig keeps unigrams and bigrams and at most 8000 terms.
func DefaultConfig() Config {
	return Config{
		MaxFeatures: 8000,
		NgramMin:    1,
		NgramMax:    2,
		MinDF:       2,
		MaxDF:       0.8,
		SublinearTF: true,
		SmoothIDF:   true,
	}
}

// Validate rejects parameter combinations Fit cannot honor.
func (c Config) Validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("%w: maxFeatures must be positive, got %d", domain.ErrConfig, c.MaxFeatures)
	}
	if c.NgramMin < 1 || c.NgramMax < c.NgramMin {
		return fmt.Errorf("%w: invalid n-gram range (%d, %d)", domain.ErrConfig, c.NgramMin, c.NgramMax)
	}
	if c.MinDF < 1 {
		return fmt.Errorf("%w: minDf must be at least 1, got %d", domain.ErrConfig, c.MinDF)
	}
	if c.MaxDF <= 0 || c.MaxDF > 1 {
		return fmt.Errorf("%w: maxDf must be in (0, 1], got %g", domain.ErrConfig, c.MaxDF)
	}
	return nil
}

// Vectorizer is a fitted TF-IDF model. It is immutable after Fit and safe for
// concurrent Transform calls.
type Vectorizer struct {
	Terms       []string  `json:"terms"`
	IDF         []float64 `json:"idf"`
	NgramMin    int       `json:"ngram_min"`
	NgramMax    int       `json:"ngram_max"`
	SublinearTF bool      `json:"sublinear_tf"`
	DocCount    int       `json:"doc_count"`

	vocabulary map[string]int
}

// Fit builds the vocabulary from corpus. Each document is expected to be normalized text.
func Fit(corpus []string, cfg Config) (*Vectorizer, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", domain.ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := len(corpus)
	maxDocCount := int(cfg.MaxDF * float64(n))
	if cfg.MaxDF == 1 {
		maxDocCount = n
	}
	if maxDocCount < cfg.MinDF {
		return nil, fmt.Errorf("%w: maxDf corresponds to %d documents, fewer than minDf %d", domain.ErrConfig, maxDocCount, cfg.MinDF)
	}

	docFreq := make(map[string]int)
	termCount := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, gram := range ngrams(tokenize(doc), cfg.NgramMin, cfg.NgramMax) {
			termCount[gram]++
			if _, ok := seen[gram]; ok {
				continue
			}
			seen[gram] = struct{}{}
			docFreq[gram]++
		}
	}

	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < cfg.MinDF || df > maxDocCount {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no terms remain after document-frequency pruning", domain.ErrConfig)
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := termCount[candidates[i]], termCount[candidates[j]]
		if ci != cj {
			return ci > cj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > cfg.MaxFeatures {
		candidates = candidates[:cfg.MaxFeatures]
	}
	sort.Strings(candidates)

	idf := make([]float64, len(candidates))
	for i, term := range candidates {
		df := float64(docFreq[term])
		if cfg.SmoothIDF {
			idf[i] = math.Log((1+float64(n))/(1+df)) + 1
		} else {
			idf[i] = math.Log(float64(n)/df) + 1
		}
	}

	v := &Vectorizer{
		Terms:       candidates,
		IDF:         idf,
		NgramMin:    cfg.NgramMin,
		NgramMax:    cfg.NgramMax,
		SublinearTF: cfg.SublinearTF,
		DocCount:    n,
	}
	v.index()
	return v, nil
}

// Restore rebuilds the lookup index after deserialization and checks consistency.
func (v *Vectorizer) Restore() error {
	if v == nil {
		return fmt.Errorf("vectorizer is nil")
	}
	if len(v.Terms) == 0 {
		return fmt.Errorf("vectorizer has an empty vocabulary")
	}
	if len(v.Terms) != len(v.IDF) {
		return fmt.Errorf("vocabulary size %d does not match idf size %d", len(v.Terms), len(v.IDF))
	}
	if v.NgramMin < 1 || v.NgramMax < v.NgramMin {
		return fmt.Errorf("invalid n-gram range (%d, %d)", v.NgramMin, v.NgramMax)
	}
	v.index()
	if len(v.vocabulary) != len(v.Terms) {
		return fmt.Errorf("vocabulary contains duplicate terms")
	}
	return nil
}

func (v *Vectorizer) index() {
	v.vocabulary = make(map[string]int, len(v.Terms))
	for i, term := range v.Terms {
		v.vocabulary[term] = i
	}
}

// Dim is the fixed dimensionality of every transformed vector.
func (v *Vectorizer) Dim() int {
	return len(v.Terms)
}

// Term returns the vocabulary term at column i.
func (v *Vectorizer) Term(i int) string {
	if i < 0 || i >= len(v.Terms) {
		return ""
	}
	return v.Terms[i]
}

// Contains reports whether term is part of the fitted vocabulary.
func (v *Vectorizer) Contains(term string) bool {
	_, ok := v.vocabulary[term]
	return ok
}

// Transform maps normalized text onto the fitted vocabulary. Unknown terms are
// ignored; the result is L2-normalized and may be the zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]float64)
	for _, gram := range ngrams(tokenize(text), v.NgramMin, v.NgramMax) {
		if idx, ok := v.vocabulary[gram]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Zero(v.Dim())
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for i, idx := range indices {
		tf := counts[idx]
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		values[i] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range values {
			values[i] /= norm
		}
	}

	return Vector{Dim: v.Dim(), Indices: indices, Values: values}
}

// TransformAll applies Transform to every document.
func (v *Vectorizer) TransformAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// tokenize drops single-character tokens.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func ngrams(tokens []string, minN, maxN int) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				out = append(out, tokens[i])
				continue
			}
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
