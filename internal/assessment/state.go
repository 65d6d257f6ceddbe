package assessment

// Phase tags the attempt state of a widget.
type Phase string

const (
	// PhaseUnanswered is the inline check's initial state.
	PhaseUnanswered Phase = "unanswered"
	// PhaseInProgress means the quiz question at Index awaits an answer.
	PhaseInProgress Phase = "in_progress"
	// PhaseRevealed means the answer at Index is recorded and its feedback shown.
	PhaseRevealed Phase = "revealed"
	// PhaseComplete means every quiz question has been answered.
	PhaseComplete Phase = "complete"
)

// Response records one answered question.
type Response struct {
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"answer"`
	Correct    bool   `json:"correct"`
}

// QuizState is the attempt state of one mounted quiz. Transitions return a new
// value; Responses is never appended to in place.
type QuizState struct {
	Phase       Phase
	Index       int
	Selected    Answer
	LastCorrect bool
	Score       int
	Responses   []Response
}

// InlineState is the attempt state of one mounted inline check.
type InlineState struct {
	Phase    Phase
	Selected Answer
	Correct  bool
}

// Action names a learner intent forwarded by a display layer.
type Action string

const (
	ActionSelect  Action = "select"
	ActionAdvance Action = "advance"
	ActionRetake  Action = "retake"
)

// Intent is a named transition request.
type Intent struct {
	Action Action
	Answer Answer
}

// Select builds a select intent.
func Select(a Answer) Intent { return Intent{Action: ActionSelect, Answer: a} }

// Advance builds an advance intent.
func Advance() Intent { return Intent{Action: ActionAdvance} }

// Retake builds a retake intent.
func Retake() Intent { return Intent{Action: ActionRetake} }

func appendResponse(rs []Response, r Response) []Response {
	out := make([]Response, len(rs), len(rs)+1)
	copy(out, rs)
	return append(out, r)
}
