package repository

import (
	"cquizy_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) CreateBand(band *model.GradeBand) error {
	return r.DB.Create(band).Error
}

func (r *GradeRepository) FindBandByID(id uint) (*model.GradeBand, error) {
	var band model.GradeBand
	err := r.DB.First(&band, id).Error
	return &band, err
}

// ListBands returns a group's bands ordered from the highest range down.
// activeOnly is an explicit choice at the call site.
func (r *GradeRepository) ListBands(groupID uint, activeOnly bool) ([]model.GradeBand, error) {
	var bands []model.GradeBand
	q := r.DB.Where("group_id = ?", groupID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Order("max_percentage desc, name asc").Find(&bands).Error
	return bands, err
}

func (r *GradeRepository) UpdateBand(band *model.GradeBand) error {
	return r.DB.Save(band).Error
}

func (r *GradeRepository) DeactivateBand(id uint) error {
	return r.DB.Model(&model.GradeBand{}).Where("id = ?", id).Update("active", false).Error
}

func (r *GradeRepository) ListGrades(groupID uint) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.DB.Preload("Student").Preload("Teacher").
		Where("group_id = ?", groupID).
		Order("awarded_at desc").
		Find(&grades).Error
	return grades, err
}
