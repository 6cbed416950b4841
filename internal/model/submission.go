package model

import "time"

// Submission is the final result of a student's quiz. No soft-delete base
// here: the (quiz_id, student_id) unique key is the arbiter for duplicate
// submits, and a soft-deleted row would keep blocking a teacher-approved
// retake. Resets remove the row (and its answers) for real.
type Submission struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID      uint      `gorm:"uniqueIndex:idx_quiz_student;not null" json:"quizId"`
	StudentID   uint      `gorm:"uniqueIndex:idx_quiz_student;not null" json:"studentId"`
	Percentage  float64   `gorm:"type:decimal(5,2);not null" json:"percentage"`
	GradeID     *uint     `json:"gradeId,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`

	Quiz    *Quiz  `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Student *User  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Grade   *Grade `gorm:"foreignKey:GradeID;constraint:OnDelete:SET NULL" json:"grade,omitempty"`

	Answers []SubmittedAnswer `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

// SubmittedAnswer stores one normalized answer to a block together with the
// points it earned. PointsAwarded is the only field a regrade may mutate.
type SubmittedAnswer struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionID  uint   `gorm:"index;not null" json:"submissionId"`
	BlockID       uint   `gorm:"index;not null" json:"blockId"`
	AnswerText    string `gorm:"type:text;not null" json:"answerText"`
	PointsAwarded int    `gorm:"default:0" json:"pointsAwarded"`
}
