package repository

import (
	"cquizy_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Project").Preload("Group").First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) ListForGroup(groupID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Preload("Project").Preload("Group").
		Where("group_id = ?", groupID).
		Order("date_start desc").
		Find(&quizzes).Error
	return quizzes, err
}
