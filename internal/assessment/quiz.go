package assessment

// Quiz drives a learner through an ordered list of questions and classifies the
// final percentage against a pass threshold.
type Quiz struct {
	id        string
	title     string
	questions []Question
	threshold int
}

// NewQuiz validates cfg and builds a quiz. Malformed questions, an empty list or
// an out-of-range threshold yield a *ValidationError.
func NewQuiz(cfg Config) (*Quiz, error) {
	if err := validateQuestions(widgetName("quiz", cfg), cfg); err != nil {
		return nil, err
	}
	return &Quiz{
		id:        cfg.ID,
		title:     cfg.Title,
		questions: append([]Question(nil), cfg.Questions...),
		threshold: threshold(cfg),
	}, nil
}

func (q *Quiz) ID() string { return q.id }

func (q *Quiz) Title() string { return q.title }

// PassThreshold is the minimum percentage, inclusive, that counts as a pass.
func (q *Quiz) PassThreshold() int { return q.threshold }

// Len returns the number of questions.
func (q *Quiz) Len() int { return len(q.questions) }

// Question returns the i-th question.
func (q *Quiz) Question(i int) Question { return q.questions[i] }

// Questions returns a copy of the question list.
func (q *Quiz) Questions() []Question {
	return append([]Question(nil), q.questions...)
}

// Start returns the initial attempt state.
func (q *Quiz) Start() QuizState {
	return QuizState{Phase: PhaseInProgress}
}

// Select records an answer for the current question. Outside PhaseInProgress it
// is a no-op, so repeated clicks cannot score twice.
func (q *Quiz) Select(s QuizState, a Answer) (QuizState, error) {
	if s.Phase != PhaseInProgress || s.Index < 0 || s.Index >= len(q.questions) {
		return s, nil
	}
	question := q.questions[s.Index]
	normalized, correct, err := question.grade(a)
	if err != nil {
		return s, err
	}

	next := s
	next.Phase = PhaseRevealed
	next.Selected = normalized
	next.LastCorrect = correct
	if correct {
		next.Score++
	}
	next.Responses = appendResponse(s.Responses, Response{
		QuestionID: question.ID,
		Answer:     normalized,
		Correct:    correct,
	})
	return next, nil
}

// Advance moves past a revealed question, to the next one or to completion.
func (q *Quiz) Advance(s QuizState) QuizState {
	if s.Phase != PhaseRevealed {
		return s
	}
	next := s
	next.Selected = Answer{}
	next.LastCorrect = false
	if s.Index+1 < len(q.questions) {
		next.Phase = PhaseInProgress
		next.Index = s.Index + 1
		return next
	}
	next.Phase = PhaseComplete
	return next
}

// Retake resets a completed quiz. No score or responses carry over.
func (q *Quiz) Retake(s QuizState) QuizState {
	if s.Phase != PhaseComplete {
		return s
	}
	return q.Start()
}

// Reduce applies an intent. Unknown actions are no-ops.
func (q *Quiz) Reduce(s QuizState, in Intent) (QuizState, error) {
	switch in.Action {
	case ActionSelect:
		return q.Select(s, in.Answer)
	case ActionAdvance:
		return q.Advance(s), nil
	case ActionRetake:
		return q.Retake(s), nil
	default:
		return s, nil
	}
}

// Result reports the quiz state in the form a host renders.
func (q *Quiz) Result(s QuizState) Snapshot {
	snap := Snapshot{
		Widget:        q.id,
		Kind:          WidgetQuiz,
		Phase:         s.Phase,
		Index:         s.Index,
		Total:         len(q.questions),
		Score:         s.Score,
		PassThreshold: q.threshold,
		Responses:     append([]Response(nil), s.Responses...),
	}
	inRange := s.Index >= 0 && s.Index < len(q.questions)
	switch {
	case s.Phase == PhaseInProgress && inRange:
		snap.Question = describe(q.questions[s.Index])
	case s.Phase == PhaseRevealed && inRange:
		question := q.questions[s.Index]
		snap.Question = describe(question)
		snap.Selected = s.Selected
		correct := s.LastCorrect
		snap.IsCorrect = &correct
		snap.Explanation = question.Explanation
		snap.CorrectAnswer = question.Correct
	case s.Phase == PhaseComplete:
		pct := Percentage(s.Score, len(q.questions))
		passed := pct >= q.threshold
		snap.Percentage = &pct
		snap.Passed = &passed
		if n := len(s.Responses); n > 0 {
			last := s.Responses[n-1].Correct
			snap.IsCorrect = &last
		}
	}
	return snap
}

func widgetName(kind string, cfg Config) string {
	if cfg.ID != "" {
		return kind + " " + cfg.ID
	}
	return kind
}
