package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type GradeService struct {
	Grades *repository.GradeRepository
	Groups *repository.GroupRepository
}

func NewGradeService(grades *repository.GradeRepository, groups *repository.GroupRepository) *GradeService {
	return &GradeService{Grades: grades, Groups: groups}
}

type GradeBandInput struct {
	Name          string `json:"name" binding:"required,max=50"`
	MinPercentage int    `json:"minPercentage" binding:"min=0,max=100"`
	MaxPercentage int    `json:"maxPercentage" binding:"min=0,max=100"`
}

var ErrBandRangeInverted = errors.New("band minimum exceeds its maximum")

// CreateBand adds a grade band to a group. Group admins only. Overlapping
// ranges are allowed on purpose; only an inverted range is rejected.
func (s *GradeService) CreateBand(groupID, userID uint, input GradeBandInput) (*model.GradeBand, error) {
	if err := s.requireAdmin(groupID, userID); err != nil {
		return nil, err
	}
	if input.MinPercentage > input.MaxPercentage {
		return nil, ErrBandRangeInverted
	}
	band := &model.GradeBand{
		GroupID:       groupID,
		Name:          input.Name,
		MinPercentage: input.MinPercentage,
		MaxPercentage: input.MaxPercentage,
		Active:        true,
	}
	if err := s.Grades.CreateBand(band); err != nil {
		return nil, err
	}
	return band, nil
}

// ListBands returns a group's bands to its active members. Members see only
// active bands; admins also get deactivated ones for housekeeping.
func (s *GradeService) ListBands(groupID, userID uint) ([]model.GradeBand, error) {
	if _, err := s.Groups.FindMember(groupID, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return nil, err
	}
	return s.Grades.ListBands(groupID, !isAdmin)
}

// UpdateBand edits a band's name or range. Group admins only. Already-awarded
// grades keep their value; band edits only affect future grading.
func (s *GradeService) UpdateBand(bandID, userID uint, input GradeBandInput) (*model.GradeBand, error) {
	band, err := s.Grades.FindBandByID(bandID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdmin(band.GroupID, userID); err != nil {
		return nil, err
	}
	if input.MinPercentage > input.MaxPercentage {
		return nil, ErrBandRangeInverted
	}
	band.Name = input.Name
	band.MinPercentage = input.MinPercentage
	band.MaxPercentage = input.MaxPercentage
	if err := s.Grades.UpdateBand(band); err != nil {
		return nil, err
	}
	return band, nil
}

// DeactivateBand retires a band from future grading without touching awarded
// grades.
func (s *GradeService) DeactivateBand(bandID, userID uint) error {
	band, err := s.Grades.FindBandByID(bandID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(band.GroupID, userID); err != nil {
		return err
	}
	return s.Grades.DeactivateBand(bandID)
}

// ListGrades returns a group's awarded grades. Admins see everyone's; a
// member only their own.
func (s *GradeService) ListGrades(groupID, userID uint) ([]model.Grade, error) {
	if _, err := s.Groups.FindMember(groupID, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}
	grades, err := s.Grades.ListGrades(groupID)
	if err != nil {
		return nil, err
	}
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return grades, nil
	}
	own := make([]model.Grade, 0, len(grades))
	for _, g := range grades {
		if g.StudentID == userID {
			own = append(own, g)
		}
	}
	return own, nil
}

func (s *GradeService) requireAdmin(groupID, userID uint) error {
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return util.ErrPermissionDenied
	}
	return nil
}
