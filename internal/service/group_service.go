package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
	"cquizy_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GroupService struct {
	Groups *repository.GroupRepository
}

func NewGroupService(groups *repository.GroupRepository) *GroupService {
	return &GroupService{Groups: groups}
}

type CreateGroupInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	Color     string `json:"color"`
	Anticheat bool   `json:"anticheat"`
	Kiosk     bool   `json:"kiosk"`
}

type UpdateGroupInput struct {
	Name      *string `json:"name,omitempty"`
	Color     *string `json:"color,omitempty"`
	Anticheat *bool   `json:"anticheat,omitempty"`
	Kiosk     *bool   `json:"kiosk,omitempty"`
}

// Create makes a new group and enrolls the creator as its admin in the same
// transaction. Membership is always created explicitly here, never as a side
// effect somewhere downstream.
func (s *GroupService) Create(creatorID uint, input CreateGroupInput) (*model.Group, error) {
	group := &model.Group{
		Name:       input.Name,
		InviteCode: util.GenerateInviteCode(),
		Anticheat:  input.Anticheat,
		Kiosk:      input.Kiosk,
	}
	if input.Color != "" {
		group.Color = input.Color
	}
	creator := &model.GroupMember{
		UserID:   creatorID,
		Rank:     model.RankAdmin,
		JoinedAt: time.Now(),
	}
	if err := s.Groups.Create(group, creator); err != nil {
		return nil, err
	}
	logger.Log.Info("group created",
		zap.Uint("groupId", group.ID),
		zap.Uint("creatorId", creatorID))
	return group, nil
}

// Join enrolls a user via invite code. A departed member rejoining gets the
// old row reactivated at MEMBER rank instead of a second membership.
func (s *GroupService) Join(userID uint, inviteCode string) (*model.Group, error) {
	group, err := s.Groups.FindByInviteCode(util.NormalizeInviteCode(inviteCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInviteCodeUnknown
		}
		return nil, err
	}

	member, err := s.Groups.FindMember(group.ID, userID, false)
	if err == nil {
		if member.LeftAt == nil {
			return nil, util.ErrAlreadyMember
		}
		member.LeftAt = nil
		member.LeftReason = ""
		member.Rank = model.RankMember
		member.JoinedAt = time.Now()
		if err := s.Groups.UpdateMember(member); err != nil {
			return nil, err
		}
		return group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newMember := &model.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		Rank:     model.RankMember,
		JoinedAt: time.Now(),
	}
	if err := s.Groups.CreateMember(newMember); err != nil {
		return nil, err
	}
	return group, nil
}

// ListForUser returns the groups the user is an active member of.
func (s *GroupService) ListForUser(userID uint) ([]model.Group, error) {
	return s.Groups.ListForUser(userID)
}

// Detail returns a group to its active members.
func (s *GroupService) Detail(groupID, userID uint) (*model.Group, error) {
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.Groups.FindByID(groupID)
}

// Members lists a group's active members to any active member.
func (s *GroupService) Members(groupID, userID uint) ([]model.GroupMember, error) {
	if err := s.requireMember(groupID, userID); err != nil {
		return nil, err
	}
	return s.Groups.Members(groupID, true)
}

// Update changes a group's settings. Group admins only.
func (s *GroupService) Update(groupID, userID uint, input UpdateGroupInput) (*model.Group, error) {
	if err := s.requireAdmin(groupID, userID); err != nil {
		return nil, err
	}
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		group.Name = *input.Name
	}
	if input.Color != nil {
		group.Color = *input.Color
	}
	if input.Anticheat != nil {
		group.Anticheat = *input.Anticheat
	}
	if input.Kiosk != nil {
		group.Kiosk = *input.Kiosk
	}
	if err := s.Groups.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

// RegenerateInviteCode invalidates the current code. Group admins only.
func (s *GroupService) RegenerateInviteCode(groupID, userID uint) (*model.Group, error) {
	if err := s.requireAdmin(groupID, userID); err != nil {
		return nil, err
	}
	group, err := s.Groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	group.InviteCode = util.GenerateInviteCode()
	if err := s.Groups.Update(group); err != nil {
		return nil, err
	}
	return group, nil
}

// Kick removes a member from the group. Admins only; admins cannot kick
// themselves (use Leave).
func (s *GroupService) Kick(groupID, adminID, targetID uint) error {
	if adminID == targetID {
		return util.ErrPermissionDenied
	}
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return err
	}
	member, err := s.Groups.FindMember(groupID, targetID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotGroupMember
		}
		return err
	}
	now := time.Now()
	member.LeftAt = &now
	member.LeftReason = model.LeftKicked
	return s.Groups.UpdateMember(member)
}

// Leave marks the caller's own membership as departed. The last admin must
// transfer or delete the group instead: a group without any admin cannot
// grade submissions.
func (s *GroupService) Leave(groupID, userID uint) error {
	member, err := s.Groups.FindMember(groupID, userID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotGroupMember
		}
		return err
	}
	if member.Rank == model.RankAdmin {
		admins, err := s.activeAdminCount(groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return util.ErrGroupHasNoAdmin
		}
	}
	now := time.Now()
	member.LeftAt = &now
	member.LeftReason = model.LeftVoluntarily
	return s.Groups.UpdateMember(member)
}

// Transfer promotes another active member to admin and demotes the caller.
func (s *GroupService) Transfer(groupID, adminID, targetID uint) error {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return err
	}
	target, err := s.Groups.FindMember(groupID, targetID, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotGroupMember
		}
		return err
	}
	self, err := s.Groups.FindMember(groupID, adminID, true)
	if err != nil {
		return err
	}

	target.Rank = model.RankAdmin
	if err := s.Groups.UpdateMember(target); err != nil {
		return err
	}
	self.Rank = model.RankMember
	return s.Groups.UpdateMember(self)
}

// Delete soft-deletes the group and marks every active membership departed.
func (s *GroupService) Delete(groupID, userID uint) error {
	if err := s.requireAdmin(groupID, userID); err != nil {
		return err
	}
	if err := s.Groups.SoftDelete(groupID); err != nil {
		return err
	}
	logger.Log.Info("group deleted",
		zap.Uint("groupId", groupID),
		zap.Uint("byUserId", userID))
	return nil
}

func (s *GroupService) requireMember(groupID, userID uint) error {
	if _, err := s.Groups.FindMember(groupID, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotGroupMember
		}
		return err
	}
	return nil
}

func (s *GroupService) requireAdmin(groupID, userID uint) error {
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *GroupService) activeAdminCount(groupID uint) (int, error) {
	members, err := s.Groups.Members(groupID, true)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range members {
		if m.Rank == model.RankAdmin {
			count++
		}
	}
	return count, nil
}
