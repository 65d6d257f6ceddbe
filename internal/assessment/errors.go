package assessment

import (
	"fmt"
	"strings"
)

// Issue is one problem found in authored question data.
type Issue struct {
	QuestionID string
	Field      string
	Message    string
}

// ValidationError is returned by constructors when question data is malformed.
// It lists every offending question, not only the first.
type ValidationError struct {
	Widget string
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "question validation failed"
	}
	lines := make([]string, 0, len(err.Issues)+1)
	if err.Widget != "" {
		lines = append(lines, fmt.Sprintf("%s: invalid questions", err.Widget))
	}
	for _, issue := range err.Issues {
		if issue.QuestionID == "" {
			lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
			continue
		}
		lines = append(lines, fmt.Sprintf("question %s: %s: %s", issue.QuestionID, issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// QuestionIDs returns the ids named by the issues, in order, without repeats.
func (err *ValidationError) QuestionIDs() []string {
	var ids []string
	seen := map[string]bool{}
	for _, issue := range err.Issues {
		if issue.QuestionID == "" || seen[issue.QuestionID] {
			continue
		}
		seen[issue.QuestionID] = true
		ids = append(ids, issue.QuestionID)
	}
	return ids
}

// InvalidAnswerError rejects an answer outside the question's domain. The state
// passed to the transition is returned unchanged alongside it.
type InvalidAnswerError struct {
	QuestionID string
	Answer     Answer
	Reason     string
}

func (err *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %s for question %s: %s", err.Answer, err.QuestionID, err.Reason)
}

type issueCollector struct {
	widget string
	issues []Issue
}

func (c *issueCollector) add(questionID, field, message string) {
	c.issues = append(c.issues, Issue{QuestionID: questionID, Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Widget: c.widget, Issues: c.issues}
}
