package controller

import (
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// Detail godoc
// @Summary Full submission with stored answers
// @Tags submissions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) Detail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submissionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	submission, err := c.SubmissionService.Detail(submissionID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

type regradeRequest struct {
	Overrides []service.AnswerOverride `json:"overrides"`
}

// Regrade godoc
// @Summary Apply teacher point overrides and recompute the percentage
// @Description Recomputes against the project's current answer key. Override
// entries naming answers of other submissions are ignored.
// @Tags submissions
// @Accept json
// @Produce json
// @Param body body regradeRequest true "point overrides"
// @Success 200 {object} util.Response
// @Router /api/submissions/{id}/regrade [post]
func (c *SubmissionController) Regrade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submissionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req regradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	submission, err := c.SubmissionService.Regrade(submissionID, claims.UserID, req.Overrides)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// Reset godoc
// @Summary Delete a submission so the student can retake the quiz
// @Tags submissions
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/submissions/{id} [delete]
func (c *SubmissionController) Reset(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submissionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SubmissionService.Reset(submissionID, claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
