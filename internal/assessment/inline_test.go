package assessment_test

import (
	"errors"
	"testing"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

func trueFalseCheck(t *testing.T) *assessment.InlineCheck {
	t.Helper()
	check, err := assessment.NewInlineCheck(assessment.Config{
		ID: "cpc-colour",
		Questions: []assessment.Question{{
			ID:          "cpc",
			Prompt:      "The circuit protective conductor is green and yellow.",
			Kind:        assessment.TrueFalse,
			Correct:     assessment.Bool(true),
			Explanation: "BS 7671 reserves green/yellow for protective conductors.",
		}},
	})
	if err != nil {
		t.Fatalf("NewInlineCheck() error = %v", err)
	}
	return check
}

func TestInlineCheck_WrongAnswerStillExplains(t *testing.T) {
	check := trueFalseCheck(t)

	s, err := check.Submit(check.Start(), assessment.Bool(false))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	res := check.Result(s)
	if res.Phase != assessment.PhaseRevealed {
		t.Errorf("Phase = %q, want revealed", res.Phase)
	}
	if res.IsCorrect == nil || *res.IsCorrect {
		t.Errorf("IsCorrect = %v, want false", res.IsCorrect)
	}
	if res.Explanation == "" {
		t.Error("Explanation should be shown after a wrong answer")
	}
}

func TestInlineCheck_SingleAnswer(t *testing.T) {
	check := trueFalseCheck(t)

	s, err := check.Submit(check.Start(), assessment.Bool(false))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	for _, again := range []assessment.Answer{assessment.Bool(true), assessment.Choice(0), assessment.Choice(9)} {
		next, err := check.Submit(s, again)
		if err != nil {
			t.Errorf("Submit(%v) after reveal error = %v, want no-op", again, err)
		}
		if next != s {
			t.Errorf("Submit(%v) after reveal changed state to %+v", again, next)
		}
	}
}

func TestInlineCheck_IndexedTrueFalse(t *testing.T) {
	check := trueFalseCheck(t)

	tests := []struct {
		name        string
		answer      assessment.Answer
		wantCorrect bool
	}{
		{"index 0 is True", assessment.Choice(0), true},
		{"index 1 is False", assessment.Choice(1), false},
		{"bool true", assessment.Bool(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := check.Submit(check.Start(), tt.answer)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if s.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v", s.Correct, tt.wantCorrect)
			}
			if _, ok := s.Selected.Truth(); !ok {
				t.Errorf("Selected = %v, want normalised to a boolean", s.Selected)
			}
		})
	}
}

func TestInlineCheck_InvalidAnswer(t *testing.T) {
	check := trueFalseCheck(t)
	start := check.Start()

	s, err := check.Submit(start, assessment.Choice(2))
	var invalid *assessment.InvalidAnswerError
	if !errors.As(err, &invalid) {
		t.Fatalf("Submit() error = %v, want *InvalidAnswerError", err)
	}
	if s != start {
		t.Errorf("state changed after invalid answer: %+v", s)
	}

	// The check can still be answered after a rejected attempt.
	s, err = check.Submit(s, assessment.Bool(true))
	if err != nil || !s.Correct {
		t.Errorf("Submit() after rejection = %+v, %v", s, err)
	}
}

func TestInlineCheck_RemountResets(t *testing.T) {
	check := trueFalseCheck(t)
	if _, err := check.Submit(check.Start(), assessment.Bool(false)); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	fresh := check.Start()
	if fresh.Phase != assessment.PhaseUnanswered || !fresh.Selected.IsZero() {
		t.Errorf("Start() = %+v, want unanswered", fresh)
	}
}

func TestInlineCheck_ReduceIgnoresQuizIntents(t *testing.T) {
	check := trueFalseCheck(t)
	s := check.Start()
	for _, in := range []assessment.Intent{assessment.Advance(), assessment.Retake()} {
		next, err := check.Reduce(s, in)
		if err != nil || next != s {
			t.Errorf("Reduce(%s) = %+v, %v; want no-op", in.Action, next, err)
		}
	}
	next, err := check.Reduce(s, assessment.Select(assessment.Bool(true)))
	if err != nil || next.Phase != assessment.PhaseRevealed {
		t.Errorf("Reduce(select) = %+v, %v", next, err)
	}
}

func TestNewInlineCheck_Validation(t *testing.T) {
	q := assessment.Question{ID: "q", Prompt: "p", Options: []string{"a", "b"}, Correct: assessment.Choice(0)}

	tests := []struct {
		name string
		cfg  assessment.Config
	}{
		{"no question", assessment.Config{}},
		{"two questions", assessment.Config{Questions: []assessment.Question{q, q}}},
		{"bad index", assessment.Config{Questions: []assessment.Question{{ID: "q", Prompt: "p", Options: []string{"a", "b"}, Correct: assessment.Choice(2)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assessment.NewInlineCheck(tt.cfg)
			var verr *assessment.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("NewInlineCheck() error = %v, want *ValidationError", err)
			}
		})
	}
}
