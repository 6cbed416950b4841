package model

import "time"

type MemberRank string

const (
	RankAdmin  MemberRank = "ADMIN"
	RankMember MemberRank = "MEMBER"
)

type LeaveReason string

const (
	LeftGroupDeleted LeaveReason = "GROUP_DELETED"
	LeftKicked       LeaveReason = "KICKED"
	LeftVoluntarily  LeaveReason = "LEFT"
)

// Group is a class to which quizzes and students are assigned.
type Group struct {
	BaseModel
	Name       string `gorm:"size:100;not null" json:"name"`
	InviteCode string `gorm:"size:8;uniqueIndex;not null" json:"inviteCode"`
	Color      string `gorm:"size:7;default:#555555" json:"color"`
	Anticheat  bool   `gorm:"default:false" json:"anticheat"`
	Kiosk      bool   `gorm:"default:false" json:"kiosk"`
}

// GroupMember ties a user to a group with a rank. A departed member keeps the
// row with LeftAt set; "active member" is always an explicit query predicate,
// never a default scope.
type GroupMember struct {
	BaseModel
	GroupID    uint        `gorm:"uniqueIndex:idx_group_user;not null" json:"groupId"`
	UserID     uint        `gorm:"uniqueIndex:idx_group_user;not null" json:"userId"`
	Rank       MemberRank  `gorm:"size:10;default:MEMBER" json:"rank"`
	JoinedAt   time.Time   `json:"joinedAt"`
	LeftAt     *time.Time  `json:"leftAt,omitempty"`
	LeftReason LeaveReason `gorm:"size:15" json:"leftReason,omitempty"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group *Group `gorm:"foreignKey:GroupID" json:"-"`
}
