package model

import "time"

// GradeBand maps a percentage range to a grade label within a group, e.g.
// 90-100% is a "5". Ranges may overlap; selection order is defined by the
// grading service, not the schema.
type GradeBand struct {
	BaseModel
	GroupID       uint   `gorm:"uniqueIndex:idx_group_band_name;not null" json:"groupId"`
	Name          string `gorm:"size:50;uniqueIndex:idx_group_band_name;not null" json:"name"`
	MinPercentage int    `gorm:"not null" json:"minPercentage"`
	MaxPercentage int    `gorm:"not null" json:"maxPercentage"`
	Active        bool   `gorm:"default:true" json:"active"`
}

// Grade is an awarded result for a student within a group. Created only by
// automatic grading at submission time; regrades may overwrite value and
// teacher but never create one retroactively.
type Grade struct {
	BaseModel
	GroupID   uint      `gorm:"index;not null" json:"groupId"`
	StudentID uint      `gorm:"index;not null" json:"studentId"`
	TeacherID uint      `gorm:"not null" json:"teacherId"`
	Value     string    `gorm:"size:20;not null" json:"value"`
	AwardedAt time.Time `json:"awardedAt"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Teacher *User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}
