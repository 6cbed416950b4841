package service

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/repository"
	"cquizy_backend/pkg/database"
	"cquizy_backend/pkg/logger"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

var dbSeq int64

// newTestDB opens a fresh in-memory database per test. The single connection
// serializes concurrent work the same way a row-locking server would, so the
// unique-key race in TestSubmitConcurrentDoubleSubmit behaves as in
// production without SQLITE_BUSY noise.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture wires every service against one database with a standard cast:
// a teacher who admins the group and a student member.
type fixture struct {
	db *gorm.DB

	groups      *repository.GroupRepository
	grades      *repository.GradeRepository
	projects    *repository.ProjectRepository
	quizzes     *repository.QuizRepository
	events      *repository.EventRepository
	submissions *repository.SubmissionRepository

	groupSvc      *GroupService
	gradeSvc      *GradeService
	projectSvc    *ProjectService
	quizSvc       *QuizService
	submissionSvc *SubmissionService
	eventSvc      *EventService

	teacher *model.User
	student *model.User
	group   *model.Group
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:          db,
		groups:      repository.NewGroupRepository(db),
		grades:      repository.NewGradeRepository(db),
		projects:    repository.NewProjectRepository(db),
		quizzes:     repository.NewQuizRepository(db),
		events:      repository.NewEventRepository(db, nil),
		submissions: repository.NewSubmissionRepository(db),
	}
	f.groupSvc = NewGroupService(f.groups)
	f.gradeSvc = NewGradeService(f.grades, f.groups)
	f.projectSvc = NewProjectService(f.projects)
	f.quizSvc = NewQuizService(f.quizzes, f.projects, f.groups, f.submissions)
	f.submissionSvc = NewSubmissionService(db, f.submissions, f.quizzes, f.projects, f.groups, f.grades)
	f.eventSvc = NewEventService(f.events, f.quizzes, f.groups)

	f.teacher = f.createUser(t, "teacher@example.com", model.Teacher)
	f.student = f.createUser(t, "student@example.com", model.Student)

	group, err := f.groupSvc.Create(f.teacher.ID, CreateGroupInput{Name: "Class 9A"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	f.group = group
	f.addMember(t, f.student.ID)

	return f
}

func (f *fixture) createUser(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, Password: "x", Role: role}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (f *fixture) addMember(t *testing.T, userID uint) {
	t.Helper()
	member := &model.GroupMember{
		GroupID:  f.group.ID,
		UserID:   userID,
		Rank:     model.RankMember,
		JoinedAt: time.Now(),
	}
	if err := f.groups.CreateMember(member); err != nil {
		t.Fatalf("add member %d: %v", userID, err)
	}
}

// createQuiz builds a project from the given blocks and schedules it with an
// open submission window.
func (f *fixture) createQuiz(t *testing.T, blocks []BlockInput) *model.Quiz {
	t.Helper()
	project, err := f.projectSvc.Create(f.teacher.ID, ProjectInput{Name: "Quiz project", Blocks: blocks})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	quiz, err := f.quizSvc.Create(f.teacher.ID, CreateQuizInput{
		ProjectID: project.ID,
		GroupID:   f.group.ID,
		DateStart: time.Now().Add(-time.Hour),
		DateEnd:   time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (f *fixture) createBand(t *testing.T, name string, min, max int) *model.GradeBand {
	t.Helper()
	band, err := f.gradeSvc.CreateBand(f.group.ID, f.teacher.ID, GradeBandInput{
		Name:          name,
		MinPercentage: min,
		MaxPercentage: max,
	})
	if err != nil {
		t.Fatalf("create band %s: %v", name, err)
	}
	return band
}

func singleBlock(order int, question string, options ...OptionInput) BlockInput {
	return BlockInput{Order: order, Type: model.BlockSingle, Question: question, Options: options}
}

func textBlock(order int, question string, options ...OptionInput) BlockInput {
	return BlockInput{Order: order, Type: model.BlockText, Question: question, Options: options}
}
