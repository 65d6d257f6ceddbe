package assessment

import "fmt"

// InlineCheck asks one question, accepts one answer and reveals the result.
type InlineCheck struct {
	id       string
	title    string
	question Question
}

// NewInlineCheck validates cfg, which must hold exactly one question.
func NewInlineCheck(cfg Config) (*InlineCheck, error) {
	name := widgetName("inline check", cfg)
	if len(cfg.Questions) > 1 {
		c := issueCollector{widget: name}
		c.add("", "questions", fmt.Sprintf("an inline check holds exactly one question, got %d", len(cfg.Questions)))
		return nil, c.result()
	}
	if err := validateQuestions(name, cfg); err != nil {
		return nil, err
	}
	return &InlineCheck{id: cfg.ID, title: cfg.Title, question: cfg.Questions[0]}, nil
}

func (c *InlineCheck) ID() string { return c.id }

func (c *InlineCheck) Title() string { return c.title }

func (c *InlineCheck) Question() Question { return c.question }

// Start returns a fresh, unanswered state. Remounting calls this again.
func (c *InlineCheck) Start() InlineState {
	return InlineState{Phase: PhaseUnanswered}
}

// Submit records the single answer. Once revealed, further submissions are no-ops.
func (c *InlineCheck) Submit(s InlineState, a Answer) (InlineState, error) {
	if s.Phase != PhaseUnanswered {
		return s, nil
	}
	normalized, correct, err := c.question.grade(a)
	if err != nil {
		return s, err
	}
	return InlineState{Phase: PhaseRevealed, Selected: normalized, Correct: correct}, nil
}

// Reduce applies an intent. Only select has an effect on an inline check.
func (c *InlineCheck) Reduce(s InlineState, in Intent) (InlineState, error) {
	if in.Action != ActionSelect {
		return s, nil
	}
	return c.Submit(s, in.Answer)
}

// Result reports the check state in the form a host renders.
func (c *InlineCheck) Result(s InlineState) Snapshot {
	snap := Snapshot{
		Widget:   c.id,
		Kind:     WidgetInlineCheck,
		Phase:    s.Phase,
		Total:    1,
		Question: describe(c.question),
	}
	if s.Phase == PhaseRevealed {
		correct := s.Correct
		snap.Selected = s.Selected
		snap.IsCorrect = &correct
		snap.Explanation = c.question.Explanation
		snap.CorrectAnswer = c.question.Correct
		if correct {
			snap.Score = 1
		}
		snap.Responses = []Response{{QuestionID: c.question.ID, Answer: s.Selected, Correct: correct}}
	}
	return snap
}
