package repository

import (
	"cquizy_backend/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// CreateWithBlocks persists a project together with its blocks and options
// in one transaction.
func (r *ProjectRepository) CreateWithBlocks(project *model.Project) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
}

func (r *ProjectRepository) FindByID(id uint) (*model.Project, error) {
	var project model.Project
	err := r.DB.
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("blocks.ord asc")
		}).
		Preload("Blocks.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.id asc")
		}).
		First(&project, id).Error
	return &project, err
}

// BlocksWithOptions loads the live answer key for a project. Options come
// back in primary-key order, which is what makes the normalization
// last-write-wins rule deterministic.
func (r *ProjectRepository) BlocksWithOptions(projectID uint) ([]model.Block, error) {
	var blocks []model.Block
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.id asc")
		}).
		Where("project_id = ?", projectID).
		Order("ord asc").
		Find(&blocks).Error
	return blocks, err
}

func (r *ProjectRepository) ListForCreator(creatorID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.DB.Where("creator_id = ?", creatorID).Order("created_at desc").Find(&projects).Error
	return projects, err
}

// ReplaceBlocks swaps the project's content for a new set of blocks. Existing
// submissions keep their stored answers; only future scoring sees the change.
func (r *ProjectRepository) ReplaceBlocks(projectID uint, blocks []model.Block) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var blockIDs []uint
		if err := tx.Model(&model.Block{}).Where("project_id = ?", projectID).Pluck("id", &blockIDs).Error; err != nil {
			return err
		}
		if len(blockIDs) > 0 {
			if err := tx.Unscoped().Where("block_id IN ?", blockIDs).Delete(&model.AnswerOption{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&model.Block{}).Error; err != nil {
				return err
			}
		}
		for i := range blocks {
			blocks[i].ProjectID = projectID
			if err := tx.Create(&blocks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProjectRepository) Update(project *model.Project) error {
	return r.DB.Save(project).Error
}

func (r *ProjectRepository) SoftDelete(id uint) error {
	return r.DB.Delete(&model.Project{}, id).Error
}
