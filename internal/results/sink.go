// Package results hands finished widget attempts to the reporting layer.
// Records are write-only: nothing in this module reads them back, so there is
// no resume or cross-session score.
package results

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

const publishTimeout = 5 * time.Second

// Record is one finished attempt: a completed quiz or a revealed inline check.
type Record struct {
	MountID     string
	SectionID   string
	WidgetID    string
	Kind        assessment.WidgetKind
	BankVersion string
	Attempt     int
	Score       int
	Total       int
	Percentage  int
	Passed      bool
	CompletedAt time.Time
}

// FromSnapshot builds a record from a terminal snapshot. It returns false when
// the snapshot is not terminal.
func FromSnapshot(snap assessment.Snapshot) (Record, bool) {
	switch {
	case snap.Kind == assessment.WidgetQuiz && snap.Phase == assessment.PhaseComplete:
		return Record{
			WidgetID:   snap.Widget,
			Kind:       snap.Kind,
			Score:      snap.Score,
			Total:      snap.Total,
			Percentage: deref(snap.Percentage),
			Passed:     snap.Passed != nil && *snap.Passed,
		}, true
	case snap.Kind == assessment.WidgetInlineCheck && snap.Phase == assessment.PhaseRevealed:
		correct := snap.IsCorrect != nil && *snap.IsCorrect
		return Record{
			WidgetID:   snap.Widget,
			Kind:       snap.Kind,
			Score:      snap.Score,
			Total:      1,
			Percentage: assessment.Percentage(snap.Score, 1),
			Passed:     correct,
		}, true
	}
	return Record{}, false
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func (r Record) validate() error {
	if r.WidgetID == "" {
		return fmt.Errorf("widget_id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	return nil
}

// Sink receives finished attempts.
type Sink interface {
	Publish(ctx context.Context, rec Record) error
}

// NopSink drops all records.
type NopSink struct{}

func (NopSink) Publish(context.Context, Record) error {
	return nil
}

// MemorySink keeps records in memory for tests.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{records: []Record{}}
}

func (s *MemorySink) Publish(_ context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	return nil
}

func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record{}, s.records...)
}

// LogSink writes records to the structured log. It is the default when no
// reporting backend is configured.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, rec Record) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "assessment finished",
		"section_id", rec.SectionID,
		"widget_id", rec.WidgetID,
		"kind", rec.Kind,
		"attempt", rec.Attempt,
		"score", rec.Score,
		"total", rec.Total,
		"percentage", rec.Percentage,
		"passed", rec.Passed,
	)
	return nil
}
