package results_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/p-n-ai/cbt-study/internal/question"
	"github.com/p-n-ai/cbt-study/internal/results"
)

func TestGrade(t *testing.T) {
	qs := []question.Question{
		{Question: "q0", Answer: 1},
		{Question: "q1", Answer: 2},
		{Question: "q2", Answer: 0}, // source answer could not be parsed
		{Question: "q3", Answer: 4},
	}

	res, err := results.Grade(results.Attempt{
		FolderName:    "2023_1회",
		SelectedParts: []int{3, 1},
		Questions:     qs,
		Answers:       []int{1, 3, 0, 4},
		StartedAt:     t0,
		CompletedAt:   t0.Add(12*time.Minute + 40*time.Second),
	})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}

	if res.TotalQuestions != 4 || res.CorrectAnswers != 2 || res.WrongAnswers != 2 {
		t.Errorf("counts = %d/%d/%d, want 4 total, 2 correct, 2 wrong", res.TotalQuestions, res.CorrectAnswers, res.WrongAnswers)
	}
	if res.CorrectAnswers+res.WrongAnswers != res.TotalQuestions {
		t.Error("correct + wrong != total")
	}
	if res.Score != 50 {
		t.Errorf("Score = %d, want 50", res.Score)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(res.WrongQuestionIDs, want) {
		t.Errorf("WrongQuestionIDs = %v, want %v", res.WrongQuestionIDs, want)
	}
	if res.TimeSpent == nil || *res.TimeSpent != 13 {
		t.Errorf("TimeSpent = %v, want 13 minutes", res.TimeSpent)
	}
	if !reflect.DeepEqual(res.SelectedParts, []int{3, 1}) {
		t.Errorf("SelectedParts = %v, want [3 1]", res.SelectedParts)
	}
	if res.ID == "" || !res.CompletedAt.Equal(t0.Add(12*time.Minute+40*time.Second)) {
		t.Errorf("ID/CompletedAt = %q/%v, want generated id and completion time", res.ID, res.CompletedAt)
	}

	wrong := results.WrongQuestions(qs, res)
	if len(wrong) != 2 || wrong[0].Question != "q1" || wrong[1].Question != "q2" {
		t.Errorf("WrongQuestions() = %+v, want q1 and q2", wrong)
	}
}

func TestGrade_ScoreRounding(t *testing.T) {
	qs := make([]question.Question, 8)
	answers := make([]int, 8)
	for i := range qs {
		qs[i] = question.Question{Answer: 1}
	}
	answers[0] = 1 // 1/8 = 12.5%

	res, err := results.Grade(results.Attempt{Questions: qs, Answers: answers, CompletedAt: t0})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if res.Score != 13 {
		t.Errorf("Score = %d, want 13", res.Score)
	}
	if res.TimeSpent != nil {
		t.Errorf("TimeSpent = %v, want nil without StartedAt", *res.TimeSpent)
	}
}

func TestGrade_MissingAnswersCountWrong(t *testing.T) {
	qs := []question.Question{{Answer: 1}, {Answer: 2}, {Answer: 3}}

	res, err := results.Grade(results.Attempt{Questions: qs, Answers: []int{1}, CompletedAt: t0})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if res.CorrectAnswers != 1 || !reflect.DeepEqual(res.WrongQuestionIDs, []int{1, 2}) {
		t.Errorf("result = %+v, want 1 correct and [1 2] wrong", res)
	}
}

func TestGrade_Errors(t *testing.T) {
	if _, err := results.Grade(results.Attempt{}); !errors.Is(err, results.ErrNoQuestions) {
		t.Errorf("Grade(empty) error = %v, want ErrNoQuestions", err)
	}
	_, err := results.Grade(results.Attempt{
		Questions: []question.Question{{Answer: 1}},
		Answers:   []int{1, 2},
	})
	if err == nil {
		t.Error("Grade() should reject more answers than questions")
	}
}

func TestWrongQuestions_SkipsOutOfRange(t *testing.T) {
	qs := []question.Question{{Question: "only"}}
	got := results.WrongQuestions(qs, results.TestResult{WrongQuestionIDs: []int{-1, 0, 5}})
	if len(got) != 1 || got[0].Question != "only" {
		t.Errorf("WrongQuestions() = %+v, want only in-range question", got)
	}
}
