package model

type EventStatus string

const (
	// EventStatic is informational; it never affects the lock state.
	EventStatic EventStatus = "STATIC"
	// EventActive blocks the student until a teacher resolves it.
	EventActive EventStatus = "ACTIVE"
	// EventHandled is terminal.
	EventHandled EventStatus = "HANDLED"
)

// Event logs an anti-cheat report for a (quiz, student) pair, e.g. leaving
// the tab or resizing the window. The lock-status poll answers from the
// composite index on (quiz_id, student_id, status).
type Event struct {
	BaseModel
	QuizID    uint        `gorm:"index:idx_quiz_student_status;not null" json:"quizId"`
	StudentID uint        `gorm:"index:idx_quiz_student_status;not null" json:"studentId"`
	Status    EventStatus `gorm:"size:20;index:idx_quiz_student_status;default:STATIC" json:"status"`
	Type      string      `gorm:"size:100;not null" json:"type"`
	Desc      string      `gorm:"type:text" json:"desc"`
	Answer    string      `gorm:"type:text" json:"answer,omitempty"`
	Note      string      `gorm:"type:text" json:"note,omitempty"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
