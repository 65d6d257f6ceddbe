// Package assessment implements the inline check and quiz state machines used by
// course pages. Both widgets are pure: every transition takes a state value and
// returns a new one, so a host owns exactly one state per mounted widget.
package assessment

import "fmt"

// Kind distinguishes how a question's answer key is expressed.
type Kind string

const (
	MultipleChoice Kind = "multiple_choice"
	TrueFalse      Kind = "true_false"
)

// DefaultPassThreshold is used when a quiz config leaves PassThreshold at zero.
const DefaultPassThreshold = 70

var trueFalseOptions = []string{"True", "False"}

// Question is authored content. The engine never mutates it.
type Question struct {
	ID          string   `yaml:"id" json:"id"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Kind        Kind     `yaml:"kind,omitempty" json:"kind"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	Correct     Answer   `yaml:"answer" json:"-"`
	Explanation string   `yaml:"explanation,omitempty" json:"-"`
}

// Config is the construction input shared by quizzes and inline checks.
type Config struct {
	ID            string
	Title         string
	Questions     []Question
	PassThreshold int // percent; 0 selects DefaultPassThreshold
}

// Choices returns the options a learner picks from. True/false questions always
// present "True" then "False".
func (q Question) Choices() []string {
	if q.kind() == TrueFalse {
		return append([]string(nil), trueFalseOptions...)
	}
	return append([]string(nil), q.Options...)
}

func (q Question) kind() Kind {
	if q.Kind == "" {
		return MultipleChoice
	}
	return q.Kind
}

// normalize maps a learner answer onto the form the answer key uses.
// True/false questions accept Choice(0) as True and Choice(1) as False.
func (q Question) normalize(a Answer) (Answer, error) {
	if a.IsZero() {
		return Answer{}, &InvalidAnswerError{QuestionID: q.ID, Answer: a, Reason: "no answer given"}
	}
	switch q.kind() {
	case TrueFalse:
		if _, ok := a.Truth(); ok {
			return a, nil
		}
		i, _ := a.Index()
		if i < 0 || i >= len(trueFalseOptions) {
			return Answer{}, &InvalidAnswerError{
				QuestionID: q.ID,
				Answer:     a,
				Reason:     fmt.Sprintf("option %d out of range [0,%d)", i, len(trueFalseOptions)),
			}
		}
		return Bool(i == 0), nil
	default:
		i, ok := a.Index()
		if !ok {
			return Answer{}, &InvalidAnswerError{QuestionID: q.ID, Answer: a, Reason: "multiple choice question needs an option index"}
		}
		if i < 0 || i >= len(q.Options) {
			return Answer{}, &InvalidAnswerError{
				QuestionID: q.ID,
				Answer:     a,
				Reason:     fmt.Sprintf("option %d out of range [0,%d)", i, len(q.Options)),
			}
		}
		return a, nil
	}
}

// grade validates a and reports whether it matches the answer key.
func (q Question) grade(a Answer) (Answer, bool, error) {
	n, err := q.normalize(a)
	if err != nil {
		return Answer{}, false, err
	}
	return n, n == q.Correct, nil
}

// validateQuestions checks the question list and the pass threshold and returns
// every issue found, not just the first.
func validateQuestions(widget string, cfg Config) error {
	c := issueCollector{widget: widget}

	if cfg.PassThreshold < 0 || cfg.PassThreshold > 100 {
		c.add("", "pass_threshold", fmt.Sprintf("must be between 0 and 100, got %d", cfg.PassThreshold))
	}
	if len(cfg.Questions) == 0 {
		c.add("", "questions", "at least one question is required")
	}

	seen := make(map[string]bool, len(cfg.Questions))
	for i, q := range cfg.Questions {
		id := q.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
			c.add(id, "id", "is required")
		} else if seen[id] {
			c.add(id, "id", "duplicate question id")
		}
		seen[q.ID] = true

		if q.Prompt == "" {
			c.add(id, "prompt", "is required")
		}

		switch q.kind() {
		case MultipleChoice:
			if len(q.Options) < 2 {
				c.add(id, "options", fmt.Sprintf("multiple choice needs at least 2 options, got %d", len(q.Options)))
			}
			idx, ok := q.Correct.Index()
			switch {
			case q.Correct.IsZero():
				c.add(id, "answer", "is required")
			case !ok:
				c.add(id, "answer", "must be an option index for multiple choice")
			case idx < 0 || idx >= len(q.Options):
				c.add(id, "answer", fmt.Sprintf("index %d out of range for %d options", idx, len(q.Options)))
			}
		case TrueFalse:
			if _, ok := q.Correct.Truth(); !ok {
				if q.Correct.IsZero() {
					c.add(id, "answer", "is required")
				} else {
					c.add(id, "answer", "must be true or false")
				}
			}
		default:
			c.add(id, "kind", fmt.Sprintf("unknown question kind %q", q.Kind))
		}
	}
	return c.result()
}

func threshold(cfg Config) int {
	if cfg.PassThreshold == 0 {
		return DefaultPassThreshold
	}
	return cfg.PassThreshold
}
