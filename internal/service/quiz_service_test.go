package service

import (
	"cquizy_backend/internal/util"
	"errors"
	"testing"
	"time"
)

// Start hands out the questions but never the answer key.
func TestStartStripsAnswerKey(t *testing.T) {
	f := newFixture(t)
	quiz := f.createQuiz(t, []BlockInput{
		singleBlock(1, "Q1",
			OptionInput{Text: "A", IsCorrect: true, Points: 5},
			OptionInput{Text: "B", IsCorrect: false, Points: -2}),
		textBlock(2, "Capital?", OptionInput{Text: "Paris", IsCorrect: true, Points: 10}),
	})

	content, err := f.quizSvc.Start(quiz.ID, f.student.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(content.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(content.Blocks))
	}
	if content.Blocks[0].Order != 1 || content.Blocks[1].Order != 2 {
		t.Errorf("blocks out of order: %d, %d", content.Blocks[0].Order, content.Blocks[1].Order)
	}
	if got := len(content.Blocks[0].Options); got != 2 {
		t.Errorf("options = %d, want 2", got)
	}
	// QuizOption carries only id and text; this guards the shape at the
	// type level, so just check texts survived.
	if content.Blocks[0].Options[0].Text != "A" {
		t.Errorf("option text = %q, want A", content.Blocks[0].Options[0].Text)
	}
}

func TestStartRejectsSubmittedStudent(t *testing.T) {
	f := newFixture(t)
	quiz := f.createQuiz(t, []BlockInput{
		singleBlock(1, "Q1", OptionInput{Text: "A", IsCorrect: true, Points: 1}),
	})

	if _, err := f.quizSvc.Start(quiz.ID, f.student.ID); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := f.submissionSvc.Submit(quiz.ID, f.student.ID,
		answersFor(quiz, f, t, map[int]string{1: "A"})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.quizSvc.Start(quiz.ID, f.student.ID); !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("restart err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	f := newFixture(t)
	project, err := f.projectSvc.Create(f.teacher.ID, ProjectInput{Name: "P", Blocks: []BlockInput{
		singleBlock(1, "Q1", OptionInput{Text: "A", IsCorrect: true, Points: 1}),
	}})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	t.Run("inverted window", func(t *testing.T) {
		_, err := f.quizSvc.Create(f.teacher.ID, CreateQuizInput{
			ProjectID: project.ID,
			GroupID:   f.group.ID,
			DateStart: time.Now(),
			DateEnd:   time.Now().Add(-time.Hour),
		})
		if !errors.Is(err, util.ErrQuizWindow) {
			t.Errorf("err = %v, want ErrQuizWindow", err)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		_, err := f.quizSvc.Create(f.student.ID, CreateQuizInput{
			ProjectID: project.ID,
			GroupID:   f.group.ID,
			DateStart: time.Now(),
			DateEnd:   time.Now().Add(time.Hour),
		})
		if !errors.Is(err, util.ErrPermissionDenied) {
			t.Errorf("err = %v, want ErrPermissionDenied", err)
		}
	})
}

func TestProjectRejectsDuplicateBlockOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.projectSvc.Create(f.teacher.ID, ProjectInput{Name: "P", Blocks: []BlockInput{
		singleBlock(1, "Q1", OptionInput{Text: "A", IsCorrect: true, Points: 1}),
		singleBlock(1, "Q2", OptionInput{Text: "B", IsCorrect: true, Points: 1}),
	}})
	if !errors.Is(err, util.ErrDuplicateBlockOrder) {
		t.Fatalf("err = %v, want ErrDuplicateBlockOrder", err)
	}
}
