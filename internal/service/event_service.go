package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
	"cquizy_backend/pkg/logger"
	"cquizy_backend/pkg/monitoring"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lockedMessage   = "Teacher approval required to continue."
	unlockedMessage = "You may continue."
)

// EventService owns anti-cheat reporting, the lock-status poll and teacher
// resolution.
type EventService struct {
	Events  *repository.EventRepository
	Quizzes *repository.QuizRepository
	Groups  *repository.GroupRepository
}

func NewEventService(events *repository.EventRepository, quizzes *repository.QuizRepository, groups *repository.GroupRepository) *EventService {
	return &EventService{Events: events, Quizzes: quizzes, Groups: groups}
}

// ReportEventInput is the client's description of what happened.
type ReportEventInput struct {
	Type   string `json:"type" binding:"required"`
	Desc   string `json:"desc"`
	Answer string `json:"answer"`
}

// LockStatus is the answer to a student's poll.
type LockStatus struct {
	Locked  bool   `json:"locked"`
	EventID uint   `json:"eventId,omitempty"`
	Message string `json:"message"`
}

// Report records an anti-cheat event for the reporting student. When the
// group has anticheat enforcement on, the event is created ACTIVE and locks
// the student out until a teacher resolves it; otherwise it is a STATIC log
// line that never affects the lock state.
func (s *EventService) Report(quizID, studentID uint, input ReportEventInput) (*model.Event, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Groups.FindMember(quiz.GroupID, studentID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}

	status := model.EventStatic
	if quiz.Group != nil && quiz.Group.Anticheat {
		status = model.EventActive
	}

	event := &model.Event{
		QuizID:    quizID,
		StudentID: studentID,
		Status:    status,
		Type:      input.Type,
		Desc:      input.Desc,
		Answer:    input.Answer,
	}
	if err := s.Events.Create(event); err != nil {
		return nil, err
	}

	monitoring.EventsReported.WithLabelValues(string(status)).Inc()
	logger.Log.Info("anticheat event reported",
		zap.Uint("quizId", quizID),
		zap.Uint("studentId", studentID),
		zap.String("type", input.Type),
		zap.String("status", string(status)))
	return event, nil
}

// Lock answers a student's poll: locked while at least one ACTIVE event
// exists for the pair. Only active members of the quiz's group may poll.
// Answers come from the Redis cache when fresh; the cached value is the
// blocking event id, 0 meaning unlocked.
func (s *EventService) Lock(quizID, studentID uint) (*LockStatus, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Groups.FindMember(quiz.GroupID, studentID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}

	if eventID, ok := s.Events.CachedLock(quizID, studentID); ok {
		status := lockStatusFor(eventID)
		monitoring.LockPolls.WithLabelValues(lockedLabel(status.Locked), "hit").Inc()
		return status, nil
	}

	event, err := s.Events.FirstActive(quizID, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.Events.CacheLock(quizID, studentID, 0)
		status := lockStatusFor(0)
		monitoring.LockPolls.WithLabelValues("false", "miss").Inc()
		return status, nil
	}

	s.Events.CacheLock(quizID, studentID, event.ID)
	status := lockStatusFor(event.ID)
	monitoring.LockPolls.WithLabelValues("true", "miss").Inc()
	return status, nil
}

// Resolve flips an ACTIVE event to HANDLED with an optional teacher note.
// HANDLED is terminal and STATIC events were never resolvable, so anything
// other than ACTIVE is rejected. Only admins of the quiz's group may resolve.
func (s *EventService) Resolve(eventID, userID uint, note string) (*model.Event, error) {
	event, err := s.Events.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.Quizzes.FindByID(event.QuizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(quiz.GroupID, userID); err != nil {
		return nil, err
	}
	if event.Status != model.EventActive {
		return nil, util.ErrEventNotActive
	}

	rows, err := s.Events.Resolve(eventID, note)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost a race with another resolver.
		return nil, util.ErrEventNotActive
	}
	s.Events.InvalidateLock(event.QuizID, event.StudentID)

	logger.Log.Info("anticheat event resolved",
		zap.Uint("eventId", eventID),
		zap.Uint("byUserId", userID))
	return s.Events.FindByID(eventID)
}

// ListForQuiz returns a quiz's events to a group admin, optionally filtered
// by status.
func (s *EventService) ListForQuiz(quizID, userID uint, status *model.EventStatus) ([]model.Event, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(quiz.GroupID, userID); err != nil {
		return nil, err
	}
	return s.Events.ListForQuiz(quizID, status)
}

// ListAll returns every event in the system; superuser only, enforced at the
// route level.
func (s *EventService) ListAll() ([]model.Event, error) {
	return s.Events.ListAll()
}

func (s *EventService) requireGroupAdmin(groupID, userID uint) error {
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return util.ErrPermissionDenied
	}
	return nil
}

func lockStatusFor(eventID uint) *LockStatus {
	if eventID == 0 {
		return &LockStatus{Locked: false, Message: unlockedMessage}
	}
	return &LockStatus{Locked: true, EventID: eventID, Message: lockedMessage}
}

func lockedLabel(locked bool) string {
	if locked {
		return "true"
	}
	return "false"
}
