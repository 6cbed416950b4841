package model

import "time"

// Quiz is a live instance of a project being taken by a group within a
// submission window.
type Quiz struct {
	BaseModel
	ProjectID uint      `gorm:"index;not null" json:"projectId"`
	GroupID   uint      `gorm:"index;not null" json:"groupId"`
	DateStart time.Time `gorm:"not null" json:"dateStart"`
	DateEnd   time.Time `gorm:"not null" json:"dateEnd"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Group   *Group   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
