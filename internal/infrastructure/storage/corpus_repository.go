package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"FakeNewsDetector/internal/corpus"
	"FakeNewsDetector/internal/domain"
)

const labeledArticlesTable = "labeled_articles"

// CorpusRepository reads the training corpus from the labeled_articles table.
type CorpusRepository struct {
	db *sql.DB
}

var _ corpus.Loader = (*CorpusRepository)(nil)

// NewCorpusRepository wires a sql.DB implementation.
func NewCorpusRepository(db *sql.DB) *CorpusRepository {
	return &CorpusRepository{db: db}
}

// Name identifies the loader inside the registry.
func (r *CorpusRepository) Name() string {
	return "postgres"
}

// Load returns every FAKE or REAL row.
func (r *CorpusRepository) Load(ctx context.Context) ([]domain.LabeledArticle, error) {
	if r.db == nil {
		return nil, fmt.Errorf("%w: postgres corpus has no database", domain.ErrNoCorpus)
	}

	query, args, err := corpusQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build corpus query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}

	var out []domain.LabeledArticle
	for rows.Next() {
		var (
			la      domain.LabeledArticle
			subject sql.NullString
			label   string
		)
		if err := rows.Scan(&la.Article.Title, &la.Article.Text, &subject, &label); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		la.Article.Subject = subject.String
		la.Label = domain.Label(label)
		out = append(out, la)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return out, nil
}

// SaveArticles bulk-inserts labeled articles in one transaction.
func (r *CorpusRepository) SaveArticles(ctx context.Context, articles []domain.LabeledArticle) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for start := 0; start < len(articles); start += 500 {
		end := min(start+500, len(articles))
		query, args, err := insertArticles(articles[start:end]).ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert articles: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func corpusQuery() sq.SelectBuilder {
	labels := []string{string(domain.LabelFake), string(domain.LabelReal)}
	return psql.Select("title", "text", "subject", "label").
		From(labeledArticlesTable).
		Where(sq.Expr("label = ANY(?)", pq.Array(labels))).
		OrderBy("id")
}

func insertArticles(articles []domain.LabeledArticle) sq.InsertBuilder {
	b := psql.Insert(labeledArticlesTable).Columns("title", "text", "subject", "label")
	for _, a := range articles {
		b = b.Values(a.Article.Title, a.Article.Text, a.Article.Subject, string(a.Label))
	}
	return b
}
