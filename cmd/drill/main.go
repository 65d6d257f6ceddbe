// Command drill plays one quiz from an assessment bank in the terminal.
//
//	drill -bank content/electrical/01-isolation.assessments.yaml -quiz isolation-quiz
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/content"
	"github.com/p-n-ai/trade-courses/internal/drill"
	"github.com/p-n-ai/trade-courses/internal/widget"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "drill:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	bankPath := fs.String("bank", "", "path to a *.assessments.yaml bank")
	quizID := fs.String("quiz", "", "quiz id (default: the only quiz in the bank)")
	threshold := fs.Int("threshold", assessment.DefaultPassThreshold, "pass threshold when the bank sets none")
	locale := fs.String("locale", "en-GB", "locale for feedback lines")
	noColor := fs.Bool("no-color", false, "disable colours")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bankPath == "" {
		return fmt.Errorf("-bank is required")
	}

	quiz, err := loadQuiz(*bankPath, *quizID, *threshold)
	if err != nil {
		return err
	}

	model := drill.NewModel(quiz, drill.Options{
		NoColor: *noColor,
		Locale:  widget.ParseLocale(*locale),
	})
	_, err = tea.NewProgram(model).Run()
	return err
}

func loadQuiz(path, quizID string, threshold int) (*assessment.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bank, err := content.ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	built, err := content.Build(bank, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if quizID != "" {
		quiz, ok := built.Quizzes[quizID]
		if !ok {
			return nil, fmt.Errorf("%s: no quiz %q", path, quizID)
		}
		return quiz, nil
	}

	ids := make([]string, 0, len(built.Quizzes))
	for id := range built.Quizzes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%s: bank has no quizzes", path)
	case 1:
		return built.Quizzes[ids[0]], nil
	default:
		return nil, fmt.Errorf("%s: bank has %d quizzes, pick one with -quiz (%v)", path, len(ids), ids)
	}
}
