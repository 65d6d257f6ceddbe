package results

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createResultsTable = `CREATE TABLE IF NOT EXISTS assessment_results (
	id           BIGSERIAL PRIMARY KEY,
	mount_id     TEXT NOT NULL,
	section_id   TEXT NOT NULL,
	widget_id    TEXT NOT NULL,
	kind         TEXT NOT NULL,
	bank_version TEXT NOT NULL DEFAULT '',
	attempt      INTEGER NOT NULL,
	score        INTEGER NOT NULL,
	total        INTEGER NOT NULL,
	percentage   INTEGER NOT NULL,
	passed       BOOLEAN NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
)`

// PostgresSink inserts records into the assessment_results table read by the
// reporting dashboards.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

// Migrate creates the results table if it does not exist.
func (s *PostgresSink) Migrate(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("results pool is nil")
	}
	if _, err := s.pool.Exec(ctx, createResultsTable); err != nil {
		return fmt.Errorf("create assessment_results: %w", err)
	}
	return nil
}

func (s *PostgresSink) Publish(ctx context.Context, rec Record) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("results pool is nil")
	}
	if err := rec.validate(); err != nil {
		return err
	}

	completedAt := rec.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO assessment_results
		   (mount_id, section_id, widget_id, kind, bank_version, attempt, score, total, percentage, passed, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.MountID,
		rec.SectionID,
		rec.WidgetID,
		string(rec.Kind),
		rec.BankVersion,
		rec.Attempt,
		rec.Score,
		rec.Total,
		rec.Percentage,
		rec.Passed,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	slog.Debug("result stored",
		"section_id", rec.SectionID,
		"widget_id", rec.WidgetID,
		"mount_id", rec.MountID,
	)
	return nil
}
