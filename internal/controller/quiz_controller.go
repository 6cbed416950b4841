package controller

import (
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService       *service.QuizService
	SubmissionService *service.SubmissionService
}

func NewQuizController(quizService *service.QuizService, submissionService *service.SubmissionService) *QuizController {
	return &QuizController{QuizService: quizService, SubmissionService: submissionService}
}

// Create godoc
// @Summary Schedule a project as a quiz for a group
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body service.CreateQuizInput true "quiz window"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.CreateQuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.Create(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

func (c *QuizController) ListForGroup(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quizzes, err := c.QuizService.ListForGroup(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Start godoc
// @Summary Begin taking a quiz
// @Description Returns the quiz content with the answer key stripped.
// @Tags quizzes
// @Produce json
// @Success 200 {object} util.Response{data=service.QuizContent}
// @Failure 400 {object} util.Response "window closed or not open yet"
// @Failure 409 {object} util.Response "already submitted"
// @Router /api/quizzes/{id}/start [get]
func (c *QuizController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	content, err := c.QuizService.Start(quizID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

type submitRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary Submit answers for a quiz
// @Description Scores the answers, persists the submission and awards a
// grade when a band matches. One submission per student per quiz.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body submitRequest true "answers"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "empty answers or window closed"
// @Failure 409 {object} util.Response "already submitted"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req submitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.SubmissionService.Submit(quizID, claims.UserID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// Submissions lists every submission of a quiz to a group admin.
func (c *QuizController) Submissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	submissions, err := c.SubmissionService.ListForQuiz(quizID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// OwnSubmission returns the caller's own submission for a quiz.
func (c *QuizController) OwnSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	submission, err := c.SubmissionService.OwnSubmission(quizID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
