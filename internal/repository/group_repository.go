package repository

import (
	"cquizy_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group, creator *model.GroupMember) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		creator.GroupID = group.ID
		return tx.Create(creator).Error
	})
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindByInviteCode(code string) (*model.Group, error) {
	var group model.Group
	err := r.DB.Where("invite_code = ?", code).First(&group).Error
	return &group, err
}

func (r *GroupRepository) Update(group *model.Group) error {
	return r.DB.Save(group).Error
}

// SoftDelete removes the group and marks every active membership as left.
func (r *GroupRepository) SoftDelete(groupID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&model.GroupMember{}).
			Where("group_id = ? AND left_at IS NULL", groupID).
			Updates(map[string]interface{}{"left_at": &now, "left_reason": model.LeftGroupDeleted}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, groupID).Error
	})
}

// ListForUser returns the groups where the user is an active member.
func (r *GroupRepository) ListForUser(userID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.
		Joins("JOIN group_members gm ON gm.group_id = `groups`.id").
		Where("gm.user_id = ? AND gm.left_at IS NULL AND gm.deleted_at IS NULL", userID).
		Find(&groups).Error
	return groups, err
}

// FindMember looks up a membership row. activeOnly is an explicit choice at
// every call site: pass false to also see departed members.
func (r *GroupRepository) FindMember(groupID, userID uint, activeOnly bool) (*model.GroupMember, error) {
	var member model.GroupMember
	q := r.DB.Where("group_id = ? AND user_id = ?", groupID, userID)
	if activeOnly {
		q = q.Where("left_at IS NULL")
	}
	err := q.First(&member).Error
	return &member, err
}

// IsActiveAdmin reports whether the user currently holds ADMIN rank in the
// group.
func (r *GroupRepository) IsActiveAdmin(groupID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND `rank` = ? AND left_at IS NULL", groupID, userID, model.RankAdmin).
		Count(&count).Error
	return count > 0, err
}

// FirstActiveAdmin returns the group's first admin member; the submit flow
// attributes automatic grades to this user. Takes the handle explicitly so it
// can run inside the caller's transaction.
func (r *GroupRepository) FirstActiveAdmin(tx *gorm.DB, groupID uint) (*model.GroupMember, error) {
	var member model.GroupMember
	err := tx.Where("group_id = ? AND `rank` = ? AND left_at IS NULL", groupID, model.RankAdmin).
		Order("id asc").
		First(&member).Error
	return &member, err
}

func (r *GroupRepository) Members(groupID uint, activeOnly bool) ([]model.GroupMember, error) {
	var members []model.GroupMember
	q := r.DB.Preload("User").Where("group_id = ?", groupID)
	if activeOnly {
		q = q.Where("left_at IS NULL")
	}
	err := q.Order("joined_at asc").Find(&members).Error
	return members, err
}

func (r *GroupRepository) CreateMember(member *model.GroupMember) error {
	return r.DB.Create(member).Error
}

func (r *GroupRepository) UpdateMember(member *model.GroupMember) error {
	return r.DB.Save(member).Error
}
