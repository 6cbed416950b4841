package model

type BlockType string

const (
	BlockText     BlockType = "TEXT"
	BlockSingle   BlockType = "SINGLE"
	BlockMultiple BlockType = "MULTIPLE"
)

// Project is a quiz blueprint authored by a teacher.
type Project struct {
	BaseModel
	Name      string `gorm:"size:255;not null" json:"name"`
	Desc      string `gorm:"type:text" json:"desc"`
	CreatorID uint   `gorm:"index;not null" json:"creatorId"`

	Blocks []Block `gorm:"foreignKey:ProjectID" json:"blocks,omitempty"`
}

// Block is a single question inside a project.
type Block struct {
	BaseModel
	ProjectID uint      `gorm:"uniqueIndex:idx_project_order;not null" json:"projectId"`
	Order     int       `gorm:"column:ord;uniqueIndex:idx_project_order;not null" json:"order"`
	Type      BlockType `gorm:"size:10;default:SINGLE" json:"type"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Subtext   string    `gorm:"type:text" json:"subtext,omitempty"`
	ImageURL  string    `gorm:"size:500" json:"imageUrl,omitempty"`
	LinkURL   string    `gorm:"size:500" json:"linkUrl,omitempty"`

	Options []AnswerOption `gorm:"foreignKey:BlockID" json:"options,omitempty"`
}

// AnswerOption is one possible response to a block. Points may be negative
// (penalize a wrong pick) or zero.
type AnswerOption struct {
	BaseModel
	BlockID   uint   `gorm:"index;not null" json:"blockId"`
	Text      string `gorm:"type:text;not null" json:"text"`
	IsCorrect bool   `gorm:"default:false" json:"isCorrect"`
	Points    int    `gorm:"default:0" json:"points"`
}
