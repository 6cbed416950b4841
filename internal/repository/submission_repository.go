package repository

import (
	"cquizy_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Quiz").Preload("Quiz.Group").Preload("Grade").First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByIDWithAnswers(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.
		Preload("Quiz").Preload("Quiz.Group").Preload("Grade").Preload("Student").
		Preload("Answers").
		First(&submission, id).Error
	return &submission, err
}

// Exists reports whether the pair already has a submission. This is only the
// fast path; the unique key on (quiz_id, student_id) is the real guard.
func (r *SubmissionRepository) Exists(quizID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubmissionRepository) ListForQuiz(quizID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Preload("Student").Preload("Grade").
		Where("quiz_id = ?", quizID).
		Order("submitted_at asc").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) FindForStudent(quizID, studentID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Grade").
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		First(&submission).Error
	return &submission, err
}

// Delete removes a submission and its answers for real, freeing the unique
// key so the student can retake the quiz.
func (r *SubmissionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&model.SubmittedAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Submission{}, id).Error
	})
}
