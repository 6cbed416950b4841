package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/util"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

// Earned 3 of 4 across two SINGLE blocks: 75%.
func seventyFivePercentQuiz(t *testing.T, f *fixture) *model.Quiz {
	t.Helper()
	return f.createQuiz(t, []BlockInput{
		singleBlock(1, "Q1", OptionInput{Text: "A", IsCorrect: true, Points: 3}),
		singleBlock(2, "Q2", OptionInput{Text: "B", IsCorrect: true, Points: 1}),
	})
}

func answersFor(quiz *model.Quiz, f *fixture, t *testing.T, texts map[int]string) []AnswerInput {
	t.Helper()
	blocks, err := f.projects.BlocksWithOptions(quiz.ProjectID)
	if err != nil {
		t.Fatalf("load blocks: %v", err)
	}
	var answers []AnswerInput
	for _, b := range blocks {
		if text, ok := texts[b.Order]; ok {
			answers = append(answers, AnswerInput{BlockID: b.ID, Text: text})
		}
	}
	return answers
}

func TestSubmitScoresAndPersists(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)

	submission, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answersFor(quiz, f, t, map[int]string{1: "A"}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Percentage != 75.0 {
		t.Errorf("percentage = %v, want 75", submission.Percentage)
	}
	if len(submission.Answers) != 1 {
		t.Errorf("stored answers = %d, want 1", len(submission.Answers))
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)
	answers := answersFor(quiz, f, t, map[int]string{1: "A"})

	if _, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answers); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answers)
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second submit err = %v, want ErrAlreadySubmitted", err)
	}

	var count int64
	f.db.Model(&model.Submission{}).Where("quiz_id = ? AND student_id = ?", quiz.ID, f.student.ID).Count(&count)
	if count != 1 {
		t.Errorf("submission rows = %d, want 1", count)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)
	answers := answersFor(quiz, f, t, map[int]string{1: "A"})

	t.Run("empty answers", func(t *testing.T) {
		if _, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, nil); !errors.Is(err, util.ErrEmptyAnswers) {
			t.Errorf("err = %v, want ErrEmptyAnswers", err)
		}
	})

	t.Run("non-member", func(t *testing.T) {
		outsider := f.createUser(t, "outsider@example.com", model.Student)
		if _, err := f.submissionSvc.Submit(quiz.ID, outsider.ID, answers); !errors.Is(err, util.ErrNotGroupMember) {
			t.Errorf("err = %v, want ErrNotGroupMember", err)
		}
	})

	t.Run("not started", func(t *testing.T) {
		future := &model.Quiz{
			ProjectID: quiz.ProjectID,
			GroupID:   f.group.ID,
			DateStart: time.Now().Add(time.Hour),
			DateEnd:   time.Now().Add(2 * time.Hour),
		}
		if err := f.quizzes.Create(future); err != nil {
			t.Fatalf("create quiz: %v", err)
		}
		if _, err := f.submissionSvc.Submit(future.ID, f.student.ID, answers); !errors.Is(err, util.ErrQuizNotStarted) {
			t.Errorf("err = %v, want ErrQuizNotStarted", err)
		}
	})

	t.Run("deadline passed", func(t *testing.T) {
		past := &model.Quiz{
			ProjectID: quiz.ProjectID,
			GroupID:   f.group.ID,
			DateStart: time.Now().Add(-2 * time.Hour),
			DateEnd:   time.Now().Add(-time.Hour),
		}
		if err := f.quizzes.Create(past); err != nil {
			t.Fatalf("create quiz: %v", err)
		}
		if _, err := f.submissionSvc.Submit(past.ID, f.student.ID, answers); !errors.Is(err, util.ErrQuizEnded) {
			t.Errorf("err = %v, want ErrQuizEnded", err)
		}
	})
}

// 82% lands in band "4"; 60% matches nothing and stays ungraded while the
// submission still succeeds.
func TestSubmitGradeBanding(t *testing.T) {
	f := newFixture(t)
	f.createBand(t, "5", 90, 100)
	f.createBand(t, "4", 75, 89)

	quiz := seventyFivePercentQuiz(t, f) // 3 of 4 = 75% -> band "4"
	submission, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answersFor(quiz, f, t, map[int]string{1: "A"}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.GradeID == nil {
		t.Fatal("expected a grade to be awarded")
	}
	var grade model.Grade
	if err := f.db.First(&grade, *submission.GradeID).Error; err != nil {
		t.Fatalf("load grade: %v", err)
	}
	if grade.Value != "4" {
		t.Errorf("grade = %q, want \"4\"", grade.Value)
	}
	if grade.TeacherID != f.teacher.ID {
		t.Errorf("grade attributed to %d, want group admin %d", grade.TeacherID, f.teacher.ID)
	}

	// 1 of 4 = 25%: no band matches, submission succeeds ungraded.
	quiz2 := seventyFivePercentQuiz(t, f)
	ungraded, err := f.submissionSvc.Submit(quiz2.ID, f.student.ID, answersFor(quiz2, f, t, map[int]string{2: "B"}))
	if err != nil {
		t.Fatalf("submit ungraded: %v", err)
	}
	if ungraded.GradeID != nil {
		t.Errorf("expected no grade for 25%%, got id %d", *ungraded.GradeID)
	}
}

// A matching band with no admin to attribute the grade to aborts the whole
// transaction: no grade, no submission.
func TestSubmitNoAdminRollsBack(t *testing.T) {
	f := newFixture(t)
	f.createBand(t, "pass", 0, 100)
	quiz := seventyFivePercentQuiz(t, f)

	if err := f.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", f.group.ID, f.teacher.ID).
		Update("rank", model.RankMember).Error; err != nil {
		t.Fatalf("demote admin: %v", err)
	}

	_, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answersFor(quiz, f, t, map[int]string{1: "A"}))
	if !errors.Is(err, util.ErrGroupHasNoAdmin) {
		t.Fatalf("err = %v, want ErrGroupHasNoAdmin", err)
	}

	var submissions, grades int64
	f.db.Model(&model.Submission{}).Count(&submissions)
	f.db.Model(&model.Grade{}).Count(&grades)
	if submissions != 0 || grades != 0 {
		t.Errorf("rows after rollback: %d submissions, %d grades; want 0 and 0", submissions, grades)
	}
}

// N concurrent submits for the same pair: exactly one wins, everyone else is
// told "already submitted", and exactly one row exists afterwards.
func TestSubmitConcurrentDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)
	answers := answersFor(quiz, f, t, map[int]string{1: "A"})

	const n = 12
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answers)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, duplicates int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, util.ErrAlreadySubmitted):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if duplicates != n-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, n-1)
	}

	var count int64
	f.db.Model(&model.Submission{}).Where("quiz_id = ? AND student_id = ?", quiz.ID, f.student.ID).Count(&count)
	if count != 1 {
		t.Errorf("submission rows = %d, want 1", count)
	}
}

// Regrade fixture: SINGLE "A" worth 6 plus TEXT "Paris" worth 4. Answering
// A and "london" earns 6 of 10 (60%), which grades "3" under a 50-69 band.
func regradeFixture(t *testing.T) (*fixture, *model.Submission) {
	t.Helper()
	f := newFixture(t)
	f.createBand(t, "3", 50, 69)
	f.createBand(t, "5", 90, 100)

	quiz := f.createQuiz(t, []BlockInput{
		singleBlock(1, "Q1", OptionInput{Text: "A", IsCorrect: true, Points: 6}),
		textBlock(2, "Capital?", OptionInput{Text: "Paris", IsCorrect: true, Points: 4}),
	})
	submission, err := f.submissionSvc.Submit(quiz.ID, f.student.ID,
		answersFor(quiz, f, t, map[int]string{1: "A", 2: "london"}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Percentage != 60.0 {
		t.Fatalf("setup percentage = %v, want 60", submission.Percentage)
	}
	return f, submission
}

func answerByText(t *testing.T, submission *model.Submission, text string) *model.SubmittedAnswer {
	t.Helper()
	for i := range submission.Answers {
		if submission.Answers[i].AnswerText == text {
			return &submission.Answers[i]
		}
	}
	t.Fatalf("no stored answer %q", text)
	return nil
}

func TestRegradeOverridesAndRebands(t *testing.T) {
	f, submission := regradeFixture(t)
	london := answerByText(t, submission, "london")

	regraded, err := f.submissionSvc.Regrade(submission.ID, f.teacher.ID,
		[]AnswerOverride{{AnswerID: london.ID, Points: 4}})
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if regraded.Percentage != 100.0 {
		t.Errorf("percentage = %v, want 100", regraded.Percentage)
	}

	var grade model.Grade
	if err := f.db.First(&grade, *submission.GradeID).Error; err != nil {
		t.Fatalf("load grade: %v", err)
	}
	if grade.Value != "5" {
		t.Errorf("grade = %q, want \"5\" after reband", grade.Value)
	}
	if grade.TeacherID != f.teacher.ID {
		t.Errorf("grade teacher = %d, want acting teacher %d", grade.TeacherID, f.teacher.ID)
	}
}

// Overriding with the points already stored changes nothing.
func TestRegradeIdempotent(t *testing.T) {
	f, submission := regradeFixture(t)

	overrides := make([]AnswerOverride, 0, len(submission.Answers))
	for _, a := range submission.Answers {
		overrides = append(overrides, AnswerOverride{AnswerID: a.ID, Points: a.PointsAwarded})
	}
	regraded, err := f.submissionSvc.Regrade(submission.ID, f.teacher.ID, overrides)
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if regraded.Percentage != 60.0 {
		t.Errorf("percentage = %v, want unchanged 60", regraded.Percentage)
	}
	var grade model.Grade
	if err := f.db.First(&grade, *submission.GradeID).Error; err != nil {
		t.Fatalf("load grade: %v", err)
	}
	if grade.Value != "3" {
		t.Errorf("grade = %q, want unchanged \"3\"", grade.Value)
	}
}

// Overrides naming answers of a different submission are ignored, not
// rejected.
func TestRegradeIgnoresForeignAnswers(t *testing.T) {
	f, submission := regradeFixture(t)

	other := f.createUser(t, "other@example.com", model.Student)
	f.addMember(t, other.ID)
	otherSubmission, err := f.submissionSvc.Submit(submission.QuizID, other.ID,
		[]AnswerInput{{BlockID: submission.Answers[0].BlockID, Text: "A"}})
	if err != nil {
		t.Fatalf("other submit: %v", err)
	}

	regraded, err := f.submissionSvc.Regrade(submission.ID, f.teacher.ID,
		[]AnswerOverride{{AnswerID: otherSubmission.Answers[0].ID, Points: 99}})
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	if regraded.Percentage != 60.0 {
		t.Errorf("percentage = %v, want unchanged 60", regraded.Percentage)
	}

	var foreign model.SubmittedAnswer
	if err := f.db.First(&foreign, otherSubmission.Answers[0].ID).Error; err != nil {
		t.Fatalf("load foreign answer: %v", err)
	}
	if foreign.PointsAwarded == 99 {
		t.Error("foreign answer was mutated by the regrade")
	}
}

// Max points come from the project's current content: shrinking the key
// after submission shifts the regraded percentage.
func TestRegradeUsesLiveMaxPoints(t *testing.T) {
	f, submission := regradeFixture(t)

	quiz, err := f.quizzes.FindByID(submission.QuizID)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	err = f.projects.ReplaceBlocks(quiz.ProjectID, []model.Block{
		{Order: 1, Type: model.BlockSingle, Question: "Q1", Options: []model.AnswerOption{
			{Text: "A", IsCorrect: true, Points: 6},
		}},
	})
	if err != nil {
		t.Fatalf("replace blocks: %v", err)
	}

	regraded, err := f.submissionSvc.Regrade(submission.ID, f.teacher.ID, nil)
	if err != nil {
		t.Fatalf("regrade: %v", err)
	}
	// Stored earned points (6) against the new max (6).
	if regraded.Percentage != 100.0 {
		t.Errorf("percentage = %v, want 100 against shrunken key", regraded.Percentage)
	}
}

func TestRegradeRequiresGroupAdmin(t *testing.T) {
	f, submission := regradeFixture(t)

	_, err := f.submissionSvc.Regrade(submission.ID, f.student.ID, nil)
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

// Reset frees the unique key, so the student can retake the quiz.
func TestResetAllowsRetake(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)
	answers := answersFor(quiz, f, t, map[int]string{1: "A"})

	submission, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.submissionSvc.Reset(submission.ID, f.teacher.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	var answerRows int64
	f.db.Model(&model.SubmittedAnswer{}).Where("submission_id = ?", submission.ID).Count(&answerRows)
	if answerRows != 0 {
		t.Errorf("orphaned answers = %d, want 0", answerRows)
	}

	if _, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answers); err != nil {
		t.Fatalf("resubmit after reset: %v", err)
	}
}

func TestResetRequiresGroupAdmin(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)
	submission, err := f.submissionSvc.Submit(quiz.ID, f.student.ID, answersFor(quiz, f, t, map[int]string{1: "A"}))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.submissionSvc.Reset(submission.ID, f.student.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

// Duplicate insert straight at the storage layer surfaces as
// gorm.ErrDuplicatedKey, which Submit translates for callers.
func TestSubmissionUniqueKey(t *testing.T) {
	f := newFixture(t)
	quiz := seventyFivePercentQuiz(t, f)

	first := &model.Submission{QuizID: quiz.ID, StudentID: f.student.ID, SubmittedAt: time.Now()}
	if err := f.db.Create(first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	second := &model.Submission{QuizID: quiz.ID, StudentID: f.student.ID, SubmittedAt: time.Now()}
	err := f.db.Create(second).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want gorm.ErrDuplicatedKey", err)
	}
}
