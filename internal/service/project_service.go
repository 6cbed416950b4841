package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
)

type ProjectService struct {
	Projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{Projects: projects}
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
	Points    int    `json:"points"`
}

type BlockInput struct {
	Order    int             `json:"order"`
	Type     model.BlockType `json:"type" binding:"required,oneof=TEXT SINGLE MULTIPLE"`
	Question string          `json:"question" binding:"required"`
	Subtext  string          `json:"subtext"`
	ImageURL string          `json:"imageUrl"`
	LinkURL  string          `json:"linkUrl"`
	Options  []OptionInput   `json:"options"`
}

type ProjectInput struct {
	Name   string       `json:"name" binding:"required,max=255"`
	Desc   string       `json:"desc"`
	Blocks []BlockInput `json:"blocks"`
}

// Create persists a new project with its blocks and options in one
// transaction. Block orders must be unique within the project.
func (s *ProjectService) Create(creatorID uint, input ProjectInput) (*model.Project, error) {
	blocks, err := buildBlocks(input.Blocks)
	if err != nil {
		return nil, err
	}
	project := &model.Project{
		Name:      input.Name,
		Desc:      input.Desc,
		CreatorID: creatorID,
		Blocks:    blocks,
	}
	if err := s.Projects.CreateWithBlocks(project); err != nil {
		return nil, err
	}
	return s.Projects.FindByID(project.ID)
}

func (s *ProjectService) FindByID(projectID, userID uint) (*model.Project, error) {
	project, err := s.Projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return project, nil
}

func (s *ProjectService) ListForCreator(creatorID uint) ([]model.Project, error) {
	return s.Projects.ListForCreator(creatorID)
}

// Update replaces a project's metadata and content wholesale. Submissions
// already graded keep their stored points; the new key only matters to
// future scoring and regrades.
func (s *ProjectService) Update(projectID, userID uint, input ProjectInput) (*model.Project, error) {
	project, err := s.Projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.CreatorID != userID {
		return nil, util.ErrPermissionDenied
	}

	blocks, err := buildBlocks(input.Blocks)
	if err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Desc = input.Desc
	project.Blocks = nil
	if err := s.Projects.Update(project); err != nil {
		return nil, err
	}
	if err := s.Projects.ReplaceBlocks(projectID, blocks); err != nil {
		return nil, err
	}
	return s.Projects.FindByID(projectID)
}

func (s *ProjectService) Delete(projectID, userID uint) error {
	project, err := s.Projects.FindByID(projectID)
	if err != nil {
		return err
	}
	if project.CreatorID != userID {
		return util.ErrPermissionDenied
	}
	return s.Projects.SoftDelete(projectID)
}

func buildBlocks(inputs []BlockInput) ([]model.Block, error) {
	seen := make(map[int]struct{}, len(inputs))
	blocks := make([]model.Block, 0, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.Order]; dup {
			return nil, util.ErrDuplicateBlockOrder
		}
		seen[in.Order] = struct{}{}

		block := model.Block{
			Order:    in.Order,
			Type:     in.Type,
			Question: in.Question,
			Subtext:  in.Subtext,
			ImageURL: in.ImageURL,
			LinkURL:  in.LinkURL,
		}
		for _, opt := range in.Options {
			block.Options = append(block.Options, model.AnswerOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Points:    opt.Points,
			})
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
