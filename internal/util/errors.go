package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrNotGroupMember    = errors.New("you are not a member of this group")
	ErrAlreadyMember     = errors.New("already a member of this group")
	ErrInviteCodeUnknown = errors.New("invalid invite code")

	ErrQuizNotStarted   = errors.New("this quiz has not started yet")
	ErrQuizWindow       = errors.New("quiz end must be after its start")
	ErrQuizEnded        = errors.New("the submission deadline has passed")
	ErrAlreadySubmitted = errors.New("you have already submitted this quiz")
	ErrEmptyAnswers     = errors.New("submission contains no answers")

	// ErrGroupHasNoAdmin is a configuration fault, not a validation error:
	// a grade band matched but there is nobody to attribute the grade to,
	// so the whole submit transaction aborts.
	ErrGroupHasNoAdmin = errors.New("cannot assign grade: group has no admin")

	ErrEventNotActive = errors.New("event is not active")

	ErrDuplicateBlockOrder = errors.New("duplicate block order within project")
)
