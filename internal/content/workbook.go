package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

// Workbook column order. Columns after "explanation" are options in order.
var workbookHeader = []string{"id", "prompt", "kind", "answer", "explanation"}

// ReadWorkbook converts a spreadsheet into a bank. Each sheet becomes one quiz
// whose ID is the sheet name; row 1 is a header and is skipped.
//
// The answer column accepts an option letter (A, B, ...), a zero-based index,
// or TRUE/FALSE for true/false questions.
func ReadWorkbook(path, sectionID string) (Bank, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	bank := Bank{SectionID: sectionID}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Bank{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		quiz := QuizDef{ID: sheet, Title: sheet}
		for i, row := range rows {
			if i == 0 || isBlankRow(row) {
				continue
			}
			q, err := questionFromRow(row)
			if err != nil {
				return Bank{}, fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
			}
			quiz.Questions = append(quiz.Questions, q)
		}
		if len(quiz.Questions) > 0 {
			bank.Quizzes = append(bank.Quizzes, quiz)
		}
	}
	return bank, nil
}

// WorkbookHeader returns the expected header row, followed by option columns.
func WorkbookHeader(options int) []string {
	header := append([]string(nil), workbookHeader...)
	for i := 0; i < options; i++ {
		header = append(header, "option "+string(rune('A'+i)))
	}
	return header
}

func questionFromRow(row []string) (assessment.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	q := assessment.Question{
		ID:          cell(0),
		Prompt:      cell(1),
		Kind:        assessment.Kind(strings.ToLower(cell(2))),
		Explanation: cell(4),
	}
	if q.Kind == "" {
		q.Kind = assessment.MultipleChoice
	}
	// Options are positional: a gap would shift the answer letter onto another option.
	blank := -1
	for i := len(workbookHeader); i < len(row); i++ {
		opt := cell(i)
		if opt == "" {
			if blank < 0 {
				blank = i - len(workbookHeader)
			}
			continue
		}
		if blank >= 0 {
			return assessment.Question{}, fmt.Errorf("question %s: option %c is blank but a later option is filled", q.ID, rune('A'+blank))
		}
		q.Options = append(q.Options, opt)
	}

	answer, err := parseCellAnswer(cell(3))
	if err != nil {
		return assessment.Question{}, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Correct = answer
	return q, nil
}

func parseCellAnswer(v string) (assessment.Answer, error) {
	switch strings.ToLower(v) {
	case "":
		return assessment.Answer{}, nil
	case "true":
		return assessment.Bool(true), nil
	case "false":
		return assessment.Bool(false), nil
	}
	if len(v) == 1 {
		c := strings.ToUpper(v)[0]
		if c >= 'A' && c <= 'Z' {
			return assessment.Choice(int(c - 'A')), nil
		}
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return assessment.Answer{}, fmt.Errorf("answer %q is not a letter, index or true/false", v)
	}
	return assessment.Choice(i), nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
