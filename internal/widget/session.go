// Package widget hosts assessment widgets for course pages. Each websocket
// connection mounts one widget with fresh attempt state; closing the connection
// unmounts it and the state is gone.
package widget

import (
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/results"
)

// reducer is the adapter between a pure widget and the state value it owns.
type reducer interface {
	snapshot() assessment.Snapshot
	apply(in assessment.Intent) error
}

type quizReducer struct {
	quiz  *assessment.Quiz
	state assessment.QuizState
}

func (r *quizReducer) snapshot() assessment.Snapshot { return r.quiz.Result(r.state) }

func (r *quizReducer) apply(in assessment.Intent) error {
	next, err := r.quiz.Reduce(r.state, in)
	if err != nil {
		return err
	}
	r.state = next
	return nil
}

type checkReducer struct {
	check *assessment.InlineCheck
	state assessment.InlineState
}

func (r *checkReducer) snapshot() assessment.Snapshot { return r.check.Result(r.state) }

func (r *checkReducer) apply(in assessment.Intent) error {
	next, err := r.check.Reduce(r.state, in)
	if err != nil {
		return err
	}
	r.state = next
	return nil
}

// Session is one mounted widget. It is owned by a single connection and is not
// safe for concurrent use.
type Session struct {
	ID          string
	SectionID   string
	BankVersion string
	MountedAt   time.Time

	widget  reducer
	attempt int
}

// NewQuizSession mounts a quiz with a fresh attempt.
func NewQuizSession(sectionID, bankVersion string, quiz *assessment.Quiz) *Session {
	return newSession(sectionID, bankVersion, &quizReducer{quiz: quiz, state: quiz.Start()})
}

// NewCheckSession mounts an inline check with a fresh attempt.
func NewCheckSession(sectionID, bankVersion string, check *assessment.InlineCheck) *Session {
	return newSession(sectionID, bankVersion, &checkReducer{check: check, state: check.Start()})
}

func newSession(sectionID, bankVersion string, r reducer) *Session {
	return &Session{
		ID:          uuid.NewString(),
		SectionID:   sectionID,
		BankVersion: bankVersion,
		MountedAt:   time.Now(),
		widget:      r,
		attempt:     1,
	}
}

// Attempt is 1 for the first run through and increases on every retake.
func (s *Session) Attempt() int { return s.attempt }

// Snapshot returns the current output surface.
func (s *Session) Snapshot() assessment.Snapshot { return s.widget.snapshot() }

// Apply forwards an intent. When the transition finishes an attempt, the
// returned record describes it; otherwise the record is nil. On error the
// state is unchanged.
func (s *Session) Apply(in assessment.Intent) (assessment.Snapshot, *results.Record, error) {
	before := s.widget.snapshot()
	if err := s.widget.apply(in); err != nil {
		return before, nil, err
	}
	after := s.widget.snapshot()

	if before.Phase == assessment.PhaseComplete && after.Phase != assessment.PhaseComplete {
		s.attempt++
	}
	if before.Phase == after.Phase && before.Index == after.Index {
		return after, nil, nil
	}

	rec, ok := results.FromSnapshot(after)
	if !ok {
		return after, nil, nil
	}
	rec.MountID = s.ID
	rec.SectionID = s.SectionID
	rec.BankVersion = s.BankVersion
	rec.Attempt = s.attempt
	rec.CompletedAt = time.Now()
	return after, &rec, nil
}
