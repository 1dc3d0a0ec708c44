package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/p-n-ai/cbt-study/internal/question"
)

// ErrNoQuestions is returned when there is nothing to grade.
var ErrNoQuestions = errors.New("no questions to grade")

// Attempt is a finished test session waiting to be graded.
type Attempt struct {
	FolderName    string
	SelectedParts []int
	Questions     []question.Question
	Answers       []int // selected option per question, 0 = unanswered
	StartedAt     time.Time
	CompletedAt   time.Time
}

// Grade scores an attempt. A question counts as correct only when the selected option
// equals its answer and that answer is non-zero, so questions whose source answer could
// not be parsed are never credited.
func Grade(a Attempt) (TestResult, error) {
	total := len(a.Questions)
	if total == 0 {
		return TestResult{}, ErrNoQuestions
	}
	if len(a.Answers) > total {
		return TestResult{}, fmt.Errorf("got %d answers for %d questions", len(a.Answers), total)
	}

	completedAt := a.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	correct := 0
	wrong := []int{}
	for i, q := range a.Questions {
		selected := 0
		if i < len(a.Answers) {
			selected = a.Answers[i]
		}
		if q.Answer != 0 && selected == q.Answer {
			correct++
			continue
		}
		wrong = append(wrong, i)
	}

	res := TestResult{
		ID:               generateID(completedAt),
		FolderName:       a.FolderName,
		SelectedParts:    append([]int{}, a.SelectedParts...),
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		WrongAnswers:     total - correct,
		Score:            roundHalfUp(float64(correct) / float64(total) * 100),
		CompletedAt:      completedAt,
		WrongQuestionIDs: wrong,
	}
	if !a.StartedAt.IsZero() {
		minutes := roundHalfUp(completedAt.Sub(a.StartedAt).Minutes())
		res.TimeSpent = &minutes
	}
	return res, nil
}

// WrongQuestions returns the questions a result marked wrong, for review. Indices
// outside questions are skipped.
func WrongQuestions(questions []question.Question, r TestResult) []question.Question {
	out := make([]question.Question, 0, len(r.WrongQuestionIDs))
	for _, i := range r.WrongQuestionIDs {
		if i >= 0 && i < len(questions) {
			out = append(out, questions[i])
		}
	}
	return out
}
