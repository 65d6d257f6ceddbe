package assessment

// WidgetKind names the widget that produced a snapshot.
type WidgetKind string

const (
	WidgetQuiz        WidgetKind = "quiz"
	WidgetInlineCheck WidgetKind = "inline_check"
)

// QuestionView is what a learner may see of a question before answering.
// It carries no answer key.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Kind    Kind     `json:"kind"`
	Options []string `json:"options"`
}

// Snapshot is the output surface handed to a host after every transition.
// Pointer fields are nil when they do not apply to the phase.
type Snapshot struct {
	Widget        string        `json:"widget"`
	Kind          WidgetKind    `json:"kind"`
	Phase         Phase         `json:"phase"`
	Index         int           `json:"index"`
	Total         int           `json:"total"`
	Score         int           `json:"score"`
	Question      *QuestionView `json:"question,omitempty"`
	Selected      Answer        `json:"selected"`
	IsCorrect     *bool         `json:"is_correct,omitempty"`
	CorrectAnswer Answer        `json:"correct_answer"`
	Explanation   string        `json:"explanation,omitempty"`
	Percentage    *int          `json:"percentage,omitempty"`
	Passed        *bool         `json:"passed,omitempty"`
	PassThreshold int           `json:"pass_threshold,omitempty"`
	Responses     []Response    `json:"responses,omitempty"`
}

// Describe returns the learner-facing view of q.
func Describe(q Question) QuestionView {
	return *describe(q)
}

func describe(q Question) *QuestionView {
	return &QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Kind:    q.kind(),
		Options: q.Choices(),
	}
}

// Percentage is 100*score/total rounded half up to an integer. A zero total
// yields 0; constructors never allow it.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}
