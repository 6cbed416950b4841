package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/util"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestJoinByInviteCode(t *testing.T) {
	f := newFixture(t)
	joiner := f.createUser(t, "joiner@example.com", model.Student)

	// The display form with the hyphen must work too.
	joined, err := f.groupSvc.Join(joiner.ID, util.FormatInviteCode(f.group.InviteCode))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != f.group.ID {
		t.Errorf("joined group %d, want %d", joined.ID, f.group.ID)
	}

	if _, err := f.groupSvc.Join(joiner.ID, f.group.InviteCode); !errors.Is(err, util.ErrAlreadyMember) {
		t.Errorf("rejoin err = %v, want ErrAlreadyMember", err)
	}

	if _, err := f.groupSvc.Join(joiner.ID, "0a0a0a0a"); !errors.Is(err, util.ErrInviteCodeUnknown) {
		t.Errorf("bad code err = %v, want ErrInviteCodeUnknown", err)
	}
}

// A member who left and rejoins gets the old row back, active again and
// demoted to MEMBER.
func TestRejoinReactivatesMembership(t *testing.T) {
	f := newFixture(t)

	if err := f.groupSvc.Leave(f.group.ID, f.student.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := f.groups.FindMember(f.group.ID, f.student.ID, true); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected departed member to be inactive, err = %v", err)
	}

	if _, err := f.groupSvc.Join(f.student.ID, f.group.InviteCode); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	member, err := f.groups.FindMember(f.group.ID, f.student.ID, true)
	if err != nil {
		t.Fatalf("member after rejoin: %v", err)
	}
	if member.Rank != model.RankMember || member.LeftAt != nil {
		t.Errorf("unexpected membership after rejoin: %+v", member)
	}

	var rows int64
	f.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", f.group.ID, f.student.ID).
		Count(&rows)
	if rows != 1 {
		t.Errorf("membership rows = %d, want 1 (reactivated, not duplicated)", rows)
	}
}

func TestLastAdminCannotLeave(t *testing.T) {
	f := newFixture(t)

	err := f.groupSvc.Leave(f.group.ID, f.teacher.ID)
	if !errors.Is(err, util.ErrGroupHasNoAdmin) {
		t.Fatalf("err = %v, want ErrGroupHasNoAdmin", err)
	}

	// After transferring, the old admin may leave.
	if err := f.groupSvc.Transfer(f.group.ID, f.teacher.ID, f.student.ID); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := f.groupSvc.Leave(f.group.ID, f.teacher.ID); err != nil {
		t.Fatalf("leave after transfer: %v", err)
	}
}

func TestKick(t *testing.T) {
	f := newFixture(t)

	if err := f.groupSvc.Kick(f.group.ID, f.student.ID, f.teacher.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("member kicking admin err = %v, want ErrPermissionDenied", err)
	}

	if err := f.groupSvc.Kick(f.group.ID, f.teacher.ID, f.student.ID); err != nil {
		t.Fatalf("kick: %v", err)
	}
	member, err := f.groups.FindMember(f.group.ID, f.student.ID, false)
	if err != nil {
		t.Fatalf("load member: %v", err)
	}
	if member.LeftAt == nil || member.LeftReason != model.LeftKicked {
		t.Errorf("unexpected membership after kick: %+v", member)
	}
}

// Deleting the group departs every active member with GROUP_DELETED.
func TestDeleteGroupDepartsMembers(t *testing.T) {
	f := newFixture(t)

	if err := f.groupSvc.Delete(f.group.ID, f.teacher.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	member, err := f.groups.FindMember(f.group.ID, f.student.ID, false)
	if err != nil {
		t.Fatalf("load member: %v", err)
	}
	if member.LeftAt == nil || member.LeftReason != model.LeftGroupDeleted {
		t.Errorf("unexpected membership after group delete: %+v", member)
	}

	groups, err := f.groupSvc.ListForUser(f.teacher.ID)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("groups after delete = %d, want 0", len(groups))
	}
}
