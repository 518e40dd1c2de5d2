// Package dataset reads the labeled news corpus from the Fake.csv / True.csv pair.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"FakeNewsDetector/internal/corpus"
	"FakeNewsDetector/internal/domain"
)

// CSVLoader reads one CSV file per label.
type CSVLoader struct {
	fakePath string
	truePath string
}

var _ corpus.Loader = (*CSVLoader)(nil)

// NewCSVLoader wires the two file paths.
func NewCSVLoader(fakePath, truePath string) *CSVLoader {
	return &CSVLoader{fakePath: fakePath, truePath: truePath}
}

// Name identifies the loader inside the registry.
func (l *CSVLoader) Name() string {
	return "csv"
}

// Load reads both files. A missing file matches domain.ErrNoCorpus.
func (l *CSVLoader) Load(ctx context.Context) ([]domain.LabeledArticle, error) {
	fake, err := readFile(ctx, l.fakePath, domain.LabelFake)
	if err != nil {
		return nil, err
	}
	genuine, err := readFile(ctx, l.truePath, domain.LabelReal)
	if err != nil {
		return nil, err
	}
	return append(fake, genuine...), nil
}

func readFile(ctx context.Context, path string, label domain.Label) ([]domain.LabeledArticle, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCorpus, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	articles, err := Read(ctx, f, label)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return articles, nil
}

// Read parses a CSV stream with a header row containing at least title and text.
// Rows whose title and text are both blank are skipped.
func Read(ctx context.Context, r io.Reader, label domain.Label) ([]domain.LabeledArticle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	titleCol, okTitle := cols["title"]
	textCol, okText := cols["text"]
	if !okTitle || !okText {
		return nil, fmt.Errorf("header must contain title and text columns, got %v", header)
	}
	subjectCol, okSubject := cols["subject"]

	var out []domain.LabeledArticle
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		article := domain.Article{
			Title: field(record, titleCol),
			Text:  field(record, textCol),
		}
		if okSubject {
			article.Subject = field(record, subjectCol)
		}
		if strings.TrimSpace(article.Title) == "" && strings.TrimSpace(article.Text) == "" {
			continue
		}
		out = append(out, domain.LabeledArticle{Article: article, Label: label})
	}
	return out, nil
}

func field(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
