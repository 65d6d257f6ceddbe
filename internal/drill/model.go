// Package drill is a terminal player for a single quiz, used by authors to walk
// through a bank before publishing it.
package drill

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/widget"
)

// Options configures the drill model.
type Options struct {
	NoColor bool
	Locale  language.Tag
}

// Model renders a quiz with Bubble Tea. It holds exactly one quiz state.
type Model struct {
	quiz    *assessment.Quiz
	state   assessment.QuizState
	cursor  int
	err     error
	locale  language.Tag
	noColor bool
}

// NewModel mounts quiz with a fresh attempt.
func NewModel(quiz *assessment.Quiz, opts Options) Model {
	locale := opts.Locale
	if locale == language.Und {
		locale = language.BritishEnglish
	}
	return Model{
		quiz:    quiz,
		state:   quiz.Start(),
		locale:  locale,
		noColor: opts.NoColor,
	}
}

// Snapshot reports the current quiz state.
func (m Model) Snapshot() assessment.Snapshot {
	return m.quiz.Result(m.state)
}

// Init has no startup commands.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update maps keys onto quiz intents.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.optionCount()-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.state.Phase == assessment.PhaseInProgress {
			m = m.apply(assessment.Select(assessment.Choice(m.cursor)))
		} else {
			m = m.apply(assessment.Advance())
		}
	case "r":
		m = m.apply(assessment.Retake())
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			idx := int(k[0] - '1')
			if m = m.apply(assessment.Select(assessment.Choice(idx))); m.err == nil && m.state.Phase == assessment.PhaseRevealed {
				m.cursor = idx
			}
		}
	}
	return m, nil
}

func (m Model) apply(in assessment.Intent) Model {
	before := m.state
	next, err := m.quiz.Reduce(m.state, in)
	m.err = err
	if err != nil {
		return m
	}
	m.state = next
	if next.Index != before.Index || (next.Phase == assessment.PhaseInProgress && before.Phase != assessment.PhaseInProgress) {
		m.cursor = 0
	}
	return m
}

func (m Model) optionCount() int {
	if m.state.Phase == assessment.PhaseComplete {
		return 0
	}
	return len(m.quiz.Question(m.state.Index).Choices())
}

// View renders the quiz.
func (m Model) View() string {
	st := newStyles(m.noColor)
	snap := m.Snapshot()

	title := m.quiz.Title()
	if title == "" {
		title = m.quiz.ID()
	}
	header := st.title.Render(title)

	var body []string
	switch snap.Phase {
	case assessment.PhaseInProgress, assessment.PhaseRevealed:
		body = append(body, st.muted.Render(fmt.Sprintf("Question %d of %d  ·  score %d", snap.Index+1, snap.Total, snap.Score)))
		body = append(body, snap.Question.Prompt, "")
		body = append(body, m.renderOptions(st, snap)...)
		if snap.Phase == assessment.PhaseRevealed {
			body = append(body, "", m.renderVerdict(st, snap))
			if snap.Explanation != "" {
				body = append(body, st.muted.Render(snap.Explanation))
			}
			body = append(body, "", st.muted.Render("enter: next"))
		} else {
			body = append(body, "", st.muted.Render("↑/↓ move  ·  enter or 1-9 answer  ·  q quit"))
		}
	case assessment.PhaseComplete:
		body = append(body, m.renderVerdict(st, snap))
		if band, ok := assessment.DefaultBands.For(*snap.Percentage); ok {
			body = append(body, st.muted.Render(band.Message))
		}
		body = append(body, "", st.muted.Render("r retake  ·  q quit"))
	}

	if m.err != nil {
		body = append(body, "", st.bad.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(body, "\n")) + "\n"
}

func (m Model) renderOptions(st styles, snap assessment.Snapshot) []string {
	correct, hasKey := -1, false
	if snap.Phase == assessment.PhaseRevealed {
		correct, hasKey = choiceIndex(snap.CorrectAnswer)
	}
	selected, hasSelection := choiceIndex(snap.Selected)

	lines := make([]string, 0, len(snap.Question.Options))
	for i, opt := range snap.Question.Options {
		marker := "  "
		if snap.Phase == assessment.PhaseInProgress && i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, opt)
		switch {
		case hasKey && i == correct:
			line = st.good.Render(line)
		case hasSelection && i == selected:
			line = st.bad.Render(line)
		case snap.Phase == assessment.PhaseInProgress && i == m.cursor:
			line = st.cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (m Model) renderVerdict(st styles, snap assessment.Snapshot) string {
	summary := widget.Summary(m.locale, snap)
	switch {
	case snap.Phase == assessment.PhaseComplete && snap.Passed != nil && *snap.Passed:
		return st.good.Render(summary)
	case snap.Phase == assessment.PhaseRevealed && snap.IsCorrect != nil && *snap.IsCorrect:
		return st.good.Render(summary)
	default:
		return st.bad.Render(summary)
	}
}

// choiceIndex maps an answer onto its option row. True/false answers are
// stored as booleans and shown as rows 0 (True) and 1 (False).
func choiceIndex(a assessment.Answer) (int, bool) {
	if i, ok := a.Index(); ok {
		return i, true
	}
	if b, ok := a.Truth(); ok {
		if b {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

type styles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	cursor lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain.Bold(true), muted: plain, good: plain, bad: plain, cursor: plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		cursor: lipgloss.NewStyle().Bold(true),
	}
}
