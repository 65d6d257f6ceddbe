package results_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/results"
)

func TestPostgresSink_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("courses"),
		postgres.WithUsername("courses"),
		postgres.WithPassword("courses"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New() error = %v", err)
	}
	defer pool.Close()

	sink := results.NewPostgresSink(pool)
	if err := sink.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrate is idempotent.
	if err := sink.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	rec := results.Record{
		MountID:     "m-1",
		SectionID:   "ei-01",
		WidgetID:    "isolation-quiz",
		Kind:        assessment.WidgetQuiz,
		BankVersion: "abc123",
		Attempt:     2,
		Score:       3,
		Total:       4,
		Percentage:  75,
		Passed:      true,
		CompletedAt: time.Now(),
	}
	if err := sink.Publish(ctx, rec); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var pct int
	var passed bool
	if err := pool.QueryRow(ctx,
		`SELECT percentage, passed FROM assessment_results WHERE mount_id = $1`, "m-1",
	).Scan(&pct, &passed); err != nil {
		t.Fatalf("query result: %v", err)
	}
	if pct != 75 || !passed {
		t.Errorf("stored percentage=%d passed=%v, want 75 true", pct, passed)
	}
}
