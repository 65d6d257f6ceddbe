package content

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

// BuiltBank holds the widgets constructed from one bank.
type BuiltBank struct {
	Quizzes      map[string]*assessment.Quiz
	InlineChecks map[string]*assessment.InlineCheck
	Widgets      []WidgetDescriptor
}

// ParseBank checks a bank document against the bank schema and decodes it.
// Unknown fields are rejected so typos in authored content surface early.
func ParseBank(data []byte) (Bank, error) {
	if err := ValidateDocument(data); err != nil {
		return Bank{}, err
	}

	var bank Bank
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bank); err != nil {
		return Bank{}, fmt.Errorf("parse bank: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Bank{}, fmt.Errorf("parse bank: multiple YAML documents are not supported")
		}
		return Bank{}, fmt.Errorf("parse bank: %w", err)
	}
	return bank, nil
}

// Build constructs every widget in the bank. All construction errors are
// returned together so an author sees each offending question at once.
func Build(bank Bank, defaultThreshold int) (BuiltBank, error) {
	built := BuiltBank{
		Quizzes:      make(map[string]*assessment.Quiz),
		InlineChecks: make(map[string]*assessment.InlineCheck),
	}
	var errs []error
	seen := map[string]bool{}

	claim := func(id string) bool {
		if id == "" {
			errs = append(errs, fmt.Errorf("widget id is required"))
			return false
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("duplicate widget id %q", id))
			return false
		}
		seen[id] = true
		return true
	}

	for _, def := range bank.InlineChecks {
		if !claim(def.ID) {
			continue
		}
		check, err := assessment.NewInlineCheck(assessment.Config{
			ID:        def.ID,
			Title:     def.Title,
			Questions: []assessment.Question{def.Question},
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built.InlineChecks[def.ID] = check
		built.Widgets = append(built.Widgets, WidgetDescriptor{
			ID:        def.ID,
			Kind:      assessment.WidgetInlineCheck,
			Title:     def.Title,
			Questions: []assessment.QuestionView{assessment.Describe(def.Question)},
		})
	}

	for _, def := range bank.Quizzes {
		if !claim(def.ID) {
			continue
		}
		threshold := firstNonZero(def.PassThreshold, bank.PassThreshold, defaultThreshold)
		quiz, err := assessment.NewQuiz(assessment.Config{
			ID:            def.ID,
			Title:         def.Title,
			Questions:     def.Questions,
			PassThreshold: threshold,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built.Quizzes[def.ID] = quiz
		views := make([]assessment.QuestionView, 0, quiz.Len())
		for _, q := range def.Questions {
			views = append(views, assessment.Describe(q))
		}
		built.Widgets = append(built.Widgets, WidgetDescriptor{
			ID:            def.ID,
			Kind:          assessment.WidgetQuiz,
			Title:         def.Title,
			PassThreshold: quiz.PassThreshold(),
			Questions:     views,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return BuiltBank{}, err
	}
	return built, nil
}

// Fingerprint returns a short, stable hash of a bank document.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
