package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/util"
	"cquizy_backend/pkg/logger"
	"cquizy_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService owns the submit and regrade flows. It holds the DB handle
// directly because both flows span multiple tables inside one transaction.
type SubmissionService struct {
	DB          *gorm.DB
	Submissions *repository.SubmissionRepository
	Quizzes     *repository.QuizRepository
	Projects    *repository.ProjectRepository
	Groups      *repository.GroupRepository
	Grades      *repository.GradeRepository
}

func NewSubmissionService(
	db *gorm.DB,
	submissions *repository.SubmissionRepository,
	quizzes *repository.QuizRepository,
	projects *repository.ProjectRepository,
	groups *repository.GroupRepository,
	grades *repository.GradeRepository,
) *SubmissionService {
	return &SubmissionService{
		DB:          db,
		Submissions: submissions,
		Quizzes:     quizzes,
		Projects:    projects,
		Groups:      groups,
		Grades:      grades,
	}
}

// AnswerOverride is a teacher's manual point correction for one stored answer.
type AnswerOverride struct {
	AnswerID uint `json:"answerId" binding:"required"`
	Points   int  `json:"points"`
}

// Submit validates, scores and persists a student's answers in one shot.
// The (quiz_id, student_id) unique key is the final arbiter for double
// submits: whoever loses the insert race gets ErrAlreadySubmitted, exactly
// as if they had been second by a minute.
func (s *SubmissionService) Submit(quizID, studentID uint, answers []AnswerInput) (*model.Submission, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Before(quiz.DateStart) {
		return nil, util.ErrQuizNotStarted
	}
	if now.After(quiz.DateEnd) {
		return nil, util.ErrQuizEnded
	}

	if _, err := s.Groups.FindMember(quiz.GroupID, studentID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotGroupMember
		}
		return nil, err
	}

	if len(answers) == 0 {
		return nil, util.ErrEmptyAnswers
	}

	// Fast path only; the unique key catches races this check misses.
	exists, err := s.Submissions.Exists(quizID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadySubmitted
	}

	blocks, err := s.Projects.BlocksWithOptions(quiz.ProjectID)
	if err != nil {
		return nil, err
	}
	result := ScoreSubmission(blocks, answers)

	bands, err := s.Grades.ListBands(quiz.GroupID, true)
	if err != nil {
		return nil, err
	}
	band := PickGradeBand(bands, result.Percentage)

	submission := &model.Submission{
		QuizID:      quizID,
		StudentID:   studentID,
		Percentage:  result.Percentage,
		SubmittedAt: now,
	}
	for _, a := range result.Answers {
		submission.Answers = append(submission.Answers, model.SubmittedAnswer{
			BlockID:       a.BlockID,
			AnswerText:    a.Text,
			PointsAwarded: a.Points,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if band != nil {
			admin, err := s.Groups.FirstActiveAdmin(tx, quiz.GroupID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return util.ErrGroupHasNoAdmin
				}
				return err
			}

			grade := &model.Grade{
				GroupID:   quiz.GroupID,
				StudentID: studentID,
				TeacherID: admin.UserID,
				Value:     band.Name,
				AwardedAt: now,
			}
			if err := tx.Create(grade).Error; err != nil {
				return err
			}
			submission.GradeID = &grade.ID
		}
		return tx.Create(submission).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			monitoring.SubmissionsGraded.WithLabelValues("duplicate").Inc()
			return nil, util.ErrAlreadySubmitted
		}
		monitoring.SubmissionsGraded.WithLabelValues("error").Inc()
		return nil, err
	}

	monitoring.SubmissionsGraded.WithLabelValues("ok").Inc()
	logger.Log.Info("submission graded",
		zap.Uint("quizId", quizID),
		zap.Uint("studentId", studentID),
		zap.Int("earned", result.Earned),
		zap.Int("max", result.Max),
		zap.Float64("percentage", result.Percentage))
	return submission, nil
}

// Regrade applies a teacher's point overrides to a submission and recomputes
// its percentage against the project's current answer key. Overrides naming
// answers that belong to a different submission are ignored. Running the same
// regrade twice is a no-op the second time.
func (s *SubmissionService) Regrade(submissionID, teacherID uint, overrides []AnswerOverride) (*model.Submission, error) {
	submission, err := s.Submissions.FindByIDWithAnswers(submissionID)
	if err != nil {
		return nil, err
	}
	quiz := submission.Quiz

	if err := s.requireGroupAdmin(quiz.GroupID, teacherID); err != nil {
		return nil, err
	}

	blocks, err := s.Projects.BlocksWithOptions(quiz.ProjectID)
	if err != nil {
		return nil, err
	}

	owned := make(map[uint]struct{}, len(submission.Answers))
	for _, a := range submission.Answers {
		owned[a.ID] = struct{}{}
	}
	wanted := make(map[uint]int, len(overrides))
	for _, o := range overrides {
		if _, ok := owned[o.AnswerID]; ok {
			wanted[o.AnswerID] = o.Points
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		earned := 0
		for i := range submission.Answers {
			a := &submission.Answers[i]
			if points, ok := wanted[a.ID]; ok && points != a.PointsAwarded {
				a.PointsAwarded = points
				if err := tx.Model(&model.SubmittedAnswer{}).
					Where("id = ?", a.ID).
					Update("points_awarded", points).Error; err != nil {
					return err
				}
			}
			earned += a.PointsAwarded
		}

		// Max points come from the live key, so editing the project after
		// submissions shifts everyone's percentage on the next regrade.
		max := TotalMaxPoints(blocks)
		percentage := ClampPercentage(earned, max)
		submission.Percentage = percentage

		if err := tx.Model(&model.Submission{}).
			Where("id = ?", submission.ID).
			Update("percentage", percentage).Error; err != nil {
			return err
		}

		// A regrade may move an existing grade between bands but never
		// creates one: a submission graded without a band match stays
		// ungraded no matter where its percentage lands afterwards.
		if submission.GradeID == nil {
			return nil
		}
		bands, err := s.Grades.ListBands(quiz.GroupID, true)
		if err != nil {
			return err
		}
		band := PickGradeBand(bands, percentage)
		if band == nil {
			return nil
		}
		return tx.Model(&model.Grade{}).
			Where("id = ?", *submission.GradeID).
			Updates(map[string]interface{}{
				"value":      band.Name,
				"teacher_id": teacherID,
				"awarded_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.RegradesApplied.Inc()
	logger.Log.Info("submission regraded",
		zap.Uint("submissionId", submissionID),
		zap.Uint("teacherId", teacherID),
		zap.Int("overrides", len(wanted)),
		zap.Float64("percentage", submission.Percentage))
	return submission, nil
}

// ListForQuiz returns every submission of a quiz to a group admin.
func (s *SubmissionService) ListForQuiz(quizID, userID uint) ([]model.Submission, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroupAdmin(quiz.GroupID, userID); err != nil {
		return nil, err
	}
	return s.Submissions.ListForQuiz(quizID)
}

// OwnSubmission returns the requesting student's submission for a quiz.
func (s *SubmissionService) OwnSubmission(quizID, studentID uint) (*model.Submission, error) {
	return s.Submissions.FindForStudent(quizID, studentID)
}

// Detail returns a full submission with answers. Group admins see any
// submission of their quizzes; a student only their own.
func (s *SubmissionService) Detail(submissionID, userID uint) (*model.Submission, error) {
	submission, err := s.Submissions.FindByIDWithAnswers(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.StudentID == userID {
		return submission, nil
	}
	if err := s.requireGroupAdmin(submission.Quiz.GroupID, userID); err != nil {
		return nil, err
	}
	return submission, nil
}

// Reset deletes a submission so the student can retake the quiz. Group admins
// only; the delete is hard so the unique key frees up.
func (s *SubmissionService) Reset(submissionID, userID uint) error {
	submission, err := s.Submissions.FindByID(submissionID)
	if err != nil {
		return err
	}
	if err := s.requireGroupAdmin(submission.Quiz.GroupID, userID); err != nil {
		return err
	}
	if err := s.Submissions.Delete(submissionID); err != nil {
		return err
	}
	logger.Log.Info("submission reset",
		zap.Uint("submissionId", submissionID),
		zap.Uint("byUserId", userID))
	return nil
}

func (s *SubmissionService) requireGroupAdmin(groupID, userID uint) error {
	isAdmin, err := s.Groups.IsActiveAdmin(groupID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return util.ErrPermissionDenied
	}
	return nil
}
