package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const predictionsTable = "predictions"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists the prediction history into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.PredictionRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SavePrediction inserts one prediction row; a repeated ID is ignored.
func (r *PostgresRepository) SavePrediction(ctx context.Context, record domain.PredictionRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := insertPrediction(record).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Summary aggregates counts per label and mode, the average confidence and the
// most recent predictions.
func (r *PostgresRepository) Summary(ctx context.Context, recent int) (domain.PredictionSummary, error) {
	summary := domain.PredictionSummary{ByLabel: map[string]int{}, ByMode: map[string]int{}}
	if r.db == nil {
		return summary, nil
	}

	query, args, err := totalsQuery().ToSql()
	if err != nil {
		return summary, fmt.Errorf("build totals: %w", err)
	}
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&summary.Total, &avg); err != nil {
		return summary, fmt.Errorf("query totals: %w", err)
	}
	summary.AvgConfidence = avg.Float64

	if err := r.countBy(ctx, "prediction", summary.ByLabel); err != nil {
		return summary, err
	}
	if err := r.countBy(ctx, "mode", summary.ByMode); err != nil {
		return summary, err
	}

	if recent <= 0 {
		return summary, nil
	}
	query, args, err = recentQuery(recent).ToSql()
	if err != nil {
		return summary, fmt.Errorf("build recent: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return summary, fmt.Errorf("query recent: %w", err)
	}
	for rows.Next() {
		var snap domain.RecentSnapshot
		if err := rows.Scan(&snap.ID, &snap.Title, &snap.Prediction, &snap.Confidence, &snap.Mode, &snap.CreatedAt); err != nil {
			_ = rows.Close()
			return summary, fmt.Errorf("scan recent: %w", err)
		}
		summary.Recent = append(summary.Recent, snap)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return summary, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return summary, fmt.Errorf("close rows: %w", closeErr)
	}

	return summary, nil
}

func (r *PostgresRepository) countBy(ctx context.Context, column string, into map[string]int) error {
	query, args, err := countByQuery(column).ToSql()
	if err != nil {
		return fmt.Errorf("build count by %s: %w", column, err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		into[key] = count
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("close rows: %w", closeErr)
	}
	return nil
}

func insertPrediction(record domain.PredictionRecord) sq.InsertBuilder {
	return psql.Insert(predictionsTable).
		Columns("id", "title", "source", "mode", "prediction", "confidence", "base_confidence", "model_version", "created_at").
		Values(record.ID, record.Title, record.Source, string(record.Mode), string(record.Prediction),
			record.Confidence, record.BaseML, record.ModelVersion, record.CreatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING")
}

func totalsQuery() sq.SelectBuilder {
	return psql.Select("COUNT(*)", "AVG(confidence)").From(predictionsTable)
}

func countByQuery(column string) sq.SelectBuilder {
	return psql.Select(column, "COUNT(*)").From(predictionsTable).GroupBy(column)
}

func recentQuery(limit int) sq.SelectBuilder {
	return psql.Select("id", "title", "prediction", "confidence", "mode", "created_at").
		From(predictionsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
}
