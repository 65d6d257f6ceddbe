package assessment_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "assessment",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"features"},
			Output:   io.Discard,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("assessment features failed")
	}
}

type scenario struct {
	quiz      *assessment.Quiz
	quizState assessment.QuizState
	check     *assessment.InlineCheck
	inline    assessment.InlineState
	buildErr  error
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &scenario{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = scenario{}
		return ctx, nil
	})

	ctx.Step(`^a quiz with (\d+) questions keyed to options ([\d,]+) and a pass threshold of (\d+)$`, s.aQuiz)
	ctx.Step(`^the learner answers ([\d,]+)$`, s.theLearnerAnswers)
	ctx.Step(`^the learner selects option (\d+) (\d+) times$`, s.theLearnerSelectsRepeatedly)
	ctx.Step(`^the learner retakes the quiz$`, s.theLearnerRetakes)
	ctx.Step(`^the quiz is complete$`, s.theQuizIsComplete)
	ctx.Step(`^the score is (\d+)$`, s.theScoreIs)
	ctx.Step(`^the percentage is (\d+)$`, s.thePercentageIs)
	ctx.Step(`^the quiz is (passed|failed)$`, s.theQuizIs)
	ctx.Step(`^the current question is (\d+)$`, s.theCurrentQuestionIs)
	ctx.Step(`^a quiz is built with question "([^"]+)" keyed to option (\d+) of (\d+)$`, s.aQuizIsBuiltWith)
	ctx.Step(`^construction fails naming question "([^"]+)"$`, s.constructionFailsNaming)

	ctx.Step(`^a true/false inline check whose answer is (true|false)$`, s.aTrueFalseCheck)
	ctx.Step(`^the learner submits (true|false)$`, s.theLearnerSubmits)
	ctx.Step(`^the answer is marked (correct|incorrect)$`, s.theAnswerIsMarked)
	ctx.Step(`^the explanation is shown$`, s.theExplanationIsShown)
}

func parseInts(list string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *scenario) aQuiz(n int, keys string, threshold int) error {
	correct, err := parseInts(keys)
	if err != nil {
		return err
	}
	if len(correct) != n {
		return fmt.Errorf("got %d keys for %d questions", len(correct), n)
	}
	questions := make([]assessment.Question, n)
	for i := range questions {
		questions[i] = assessment.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Prompt:  fmt.Sprintf("Question %d", i+1),
			Options: []string{"A", "B", "C", "D"},
			Correct: assessment.Choice(correct[i]),
		}
	}
	s.quiz, err = assessment.NewQuiz(assessment.Config{Questions: questions, PassThreshold: threshold})
	if err != nil {
		return err
	}
	s.quizState = s.quiz.Start()
	return nil
}

func (s *scenario) theLearnerAnswers(list string) error {
	answers, err := parseInts(list)
	if err != nil {
		return err
	}
	for _, a := range answers {
		s.quizState, err = s.quiz.Select(s.quizState, assessment.Choice(a))
		if err != nil {
			return err
		}
		s.quizState = s.quiz.Advance(s.quizState)
	}
	return nil
}

func (s *scenario) theLearnerSelectsRepeatedly(option, times int) error {
	for range times {
		var err error
		s.quizState, err = s.quiz.Select(s.quizState, assessment.Choice(option))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *scenario) theLearnerRetakes() error {
	s.quizState = s.quiz.Retake(s.quizState)
	return nil
}

func (s *scenario) theQuizIsComplete() error {
	if s.quizState.Phase != assessment.PhaseComplete {
		return fmt.Errorf("phase is %q", s.quizState.Phase)
	}
	return nil
}

func (s *scenario) theScoreIs(want int) error {
	if s.quizState.Score != want {
		return fmt.Errorf("score is %d, want %d", s.quizState.Score, want)
	}
	return nil
}

func (s *scenario) thePercentageIs(want int) error {
	res := s.quiz.Result(s.quizState)
	if res.Percentage == nil {
		return fmt.Errorf("no percentage in phase %q", res.Phase)
	}
	if *res.Percentage != want {
		return fmt.Errorf("percentage is %d, want %d", *res.Percentage, want)
	}
	return nil
}

func (s *scenario) theQuizIs(outcome string) error {
	res := s.quiz.Result(s.quizState)
	if res.Passed == nil {
		return fmt.Errorf("no pass/fail in phase %q", res.Phase)
	}
	if *res.Passed != (outcome == "passed") {
		return fmt.Errorf("passed = %v, want %s", *res.Passed, outcome)
	}
	return nil
}

func (s *scenario) theCurrentQuestionIs(n int) error {
	if s.quizState.Phase != assessment.PhaseInProgress || s.quizState.Index != n-1 {
		return fmt.Errorf("phase %q index %d, want question %d", s.quizState.Phase, s.quizState.Index, n)
	}
	return nil
}

func (s *scenario) aQuizIsBuiltWith(id string, key, options int) error {
	opts := make([]string, options)
	for i := range opts {
		opts[i] = strconv.Itoa(i)
	}
	s.quiz, s.buildErr = assessment.NewQuiz(assessment.Config{Questions: []assessment.Question{
		{ID: id, Prompt: "Which?", Options: opts, Correct: assessment.Choice(key)},
	}})
	return nil
}

func (s *scenario) constructionFailsNaming(id string) error {
	var verr *assessment.ValidationError
	if !errors.As(s.buildErr, &verr) {
		return fmt.Errorf("error is %v, want *ValidationError", s.buildErr)
	}
	if s.quiz != nil {
		return fmt.Errorf("a quiz was returned alongside the error")
	}
	if !slices.Contains(verr.QuestionIDs(), id) {
		return fmt.Errorf("error %q does not name %s", verr, id)
	}
	return nil
}

func (s *scenario) aTrueFalseCheck(answer string) error {
	var err error
	s.check, err = assessment.NewInlineCheck(assessment.Config{Questions: []assessment.Question{{
		ID:          "tf",
		Prompt:      "Statement",
		Kind:        assessment.TrueFalse,
		Correct:     assessment.Bool(answer == "true"),
		Explanation: "Because.",
	}}})
	if err != nil {
		return err
	}
	s.inline = s.check.Start()
	return nil
}

func (s *scenario) theLearnerSubmits(answer string) error {
	var err error
	s.inline, err = s.check.Submit(s.inline, assessment.Bool(answer == "true"))
	return err
}

func (s *scenario) theAnswerIsMarked(want string) error {
	res := s.check.Result(s.inline)
	if res.IsCorrect == nil {
		return fmt.Errorf("answer not revealed")
	}
	if *res.IsCorrect != (want == "correct") {
		return fmt.Errorf("is_correct = %v, want %s", *res.IsCorrect, want)
	}
	return nil
}

func (s *scenario) theExplanationIsShown() error {
	if s.check.Result(s.inline).Explanation == "" {
		return fmt.Errorf("explanation is empty")
	}
	return nil
}
