package repository

import (
	"context"
	"cquizy_backend/internal/model"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// lockCacheTTL keeps a lock answer fresh for roughly one poll interval; the
// write paths invalidate the key anyway, the TTL is only a backstop.
const lockCacheTTL = 3 * time.Second

// EventRepository persists anti-cheat events and fronts the hot lock-status
// existence check with a short-lived Redis key. A nil Redis client disables
// caching (tests run without one).
type EventRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewEventRepository(db *gorm.DB, rdb *redis.Client) *EventRepository {
	return &EventRepository{DB: db, RDB: rdb}
}

func lockKey(quizID, studentID uint) string {
	return fmt.Sprintf("quiz:%d:lock:%d", quizID, studentID)
}

func (r *EventRepository) Create(event *model.Event) error {
	if err := r.DB.Create(event).Error; err != nil {
		return err
	}
	r.InvalidateLock(event.QuizID, event.StudentID)
	return nil
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

// FirstActive returns the oldest unresolved blocking event for the pair, or
// gorm.ErrRecordNotFound.
func (r *EventRepository) FirstActive(quizID, studentID uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.
		Where("quiz_id = ? AND student_id = ? AND status = ?", quizID, studentID, model.EventActive).
		Order("id asc").
		First(&event).Error
	return &event, err
}

// ListForQuiz returns a quiz's events, optionally filtered by status.
func (r *EventRepository) ListForQuiz(quizID uint, status *model.EventStatus) ([]model.Event, error) {
	var events []model.Event
	q := r.DB.Preload("Student").Where("quiz_id = ?", quizID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("created_at desc").Find(&events).Error
	return events, err
}

func (r *EventRepository) ListAll() ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Preload("Student").Order("created_at desc").Find(&events).Error
	return events, err
}

// Resolve flips an ACTIVE event to HANDLED. The WHERE on status makes the
// transition one-way even under concurrent resolves; the caller checks
// RowsAffected.
func (r *EventRepository) Resolve(eventID uint, note string) (int64, error) {
	updates := map[string]interface{}{"status": model.EventHandled}
	if note != "" {
		updates["note"] = note
	}
	res := r.DB.Model(&model.Event{}).
		Where("id = ? AND status = ?", eventID, model.EventActive).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// CachedLock answers a poll from Redis if possible. The cached value is the
// active event id, 0 meaning "not locked".
func (r *EventRepository) CachedLock(quizID, studentID uint) (eventID uint, ok bool) {
	if r.RDB == nil {
		return 0, false
	}
	val, err := r.RDB.Get(context.Background(), lockKey(quizID, studentID)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (r *EventRepository) CacheLock(quizID, studentID, eventID uint) {
	if r.RDB == nil {
		return
	}
	r.RDB.Set(context.Background(), lockKey(quizID, studentID), strconv.FormatUint(uint64(eventID), 10), lockCacheTTL)
}

func (r *EventRepository) InvalidateLock(quizID, studentID uint) {
	if r.RDB == nil {
		return
	}
	r.RDB.Del(context.Background(), lockKey(quizID, studentID))
}
