package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type QuizService struct {
	Quizzes     *repository.QuizRepository
	Projects    *repository.ProjectRepository
	Groups      *repository.GroupRepository
	Submissions *repository.SubmissionRepository
}

func NewQuizService(
	quizzes *repository.QuizRepository,
	projects *repository.ProjectRepository,
	groups *repository.GroupRepository,
	submissions *repository.SubmissionRepository,
) *QuizService {
	return &QuizService{Quizzes: quizzes, Projects: projects, Groups: groups, Submissions: submissions}
}

type CreateQuizInput struct {
	ProjectID uint      `json:"projectId" binding:"required"`
	GroupID   uint      `json:"groupId" binding:"required"`
	DateStart time.Time `json:"dateStart" binding:"required"`
	DateEnd   time.Time `json:"dateEnd" binding:"required"`
}

// QuizBlock is a block as shown to a taking student: the answer key
// (correctness, points) is stripped, option texts stay.
type QuizBlock struct {
	ID       uint            `json:"id"`
	Order    int             `json:"order"`
	Type     model.BlockType `json:"type"`
	Question string          `json:"question"`
	Subtext  string          `json:"subtext,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	LinkURL  string          `json:"linkUrl,omitempty"`
	Options  []QuizOption    `json:"options"`
}

type QuizOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuizContent is what a student receives when starting a quiz.
type QuizContent struct {
	QuizID      uint        `json:"quizId"`
	ProjectName string      `json:"projectName"`
	DateEnd     time.Time   `json:"dateEnd"`
	Anticheat   bool        `json:"anticheat"`
	Kiosk       bool        `json:"kiosk"`
	Blocks      []QuizBlock `json:"blocks"`
}

// Create schedules a project as a quiz for a group. Group admins only.
func (s *QuizService) Create(userID uint, input CreateQuizInput) (*model.Quiz, error) {
	if !input.DateEnd.After(input.DateStart) {
		return nil, util.ErrQuizWindow
	}
	isAdmin, err := s.Groups.IsActiveAdmin(input.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, util.ErrPermissionDenied
	}
	if _, err := s.Projects.FindByID(input.ProjectID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		ProjectID: input.ProjectID,
		GroupID:   input.GroupID,
		DateStart: input.DateStart,
		DateEnd:   input.DateEnd,
	}
	if err := s.Quizzes.Create(quiz); err != nil {
		return nil, err
	}
	return s.Quizzes.FindByID(quiz.ID)
}

// ListForGroup returns a group's quizzes to its active members.
func (s *QuizService) ListForGroup(groupID, userID uint) ([]model.Quiz, error) {
	if _, err := s.Groups.FindMember(groupID, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}
	return s.Quizzes.ListForGroup(groupID)
}

// Start hands a student the quiz content with the answer key stripped.
// Requires active membership, an open submission window and no prior
// submission.
func (s *QuizService) Start(quizID, studentID uint) (*QuizContent, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Before(quiz.DateStart) {
		return nil, util.ErrQuizNotStarted
	}
	if now.After(quiz.DateEnd) {
		return nil, util.ErrQuizEnded
	}

	if _, err := s.Groups.FindMember(quiz.GroupID, studentID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}

	exists, err := s.Submissions.Exists(quizID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadySubmitted
	}

	blocks, err := s.Projects.BlocksWithOptions(quiz.ProjectID)
	if err != nil {
		return nil, err
	}

	content := &QuizContent{
		QuizID:  quiz.ID,
		DateEnd: quiz.DateEnd,
		Blocks:  make([]QuizBlock, 0, len(blocks)),
	}
	if quiz.Project != nil {
		content.ProjectName = quiz.Project.Name
	}
	if quiz.Group != nil {
		content.Anticheat = quiz.Group.Anticheat
		content.Kiosk = quiz.Group.Kiosk
	}
	for _, b := range blocks {
		qb := QuizBlock{
			ID:       b.ID,
			Order:    b.Order,
			Type:     b.Type,
			Question: b.Question,
			Subtext:  b.Subtext,
			ImageURL: b.ImageURL,
			LinkURL:  b.LinkURL,
			Options:  make([]QuizOption, 0, len(b.Options)),
		}
		for _, o := range b.Options {
			qb.Options = append(qb.Options, QuizOption{ID: o.ID, Text: o.Text})
		}
		content.Blocks = append(content.Blocks, qb)
	}
	return content, nil
}
