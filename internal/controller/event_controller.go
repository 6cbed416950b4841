package controller

import (
	"cquizy_backend/internal/model"
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// Report godoc
// @Summary Report an anti-cheat event for a quiz
// @Description Creates an ACTIVE (blocking) event when the group enforces
// anticheat, a STATIC log entry otherwise.
// @Tags events
// @Accept json
// @Produce json
// @Param body body service.ReportEventInput true "event description"
// @Success 201 {object} util.Response
// @Router /api/quizzes/{id}/events [post]
func (c *EventController) Report(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ReportEventInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	event, err := c.EventService.Report(quizID, claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": event.ID, "status": event.Status})
}

// Lock godoc
// @Summary Poll the caller's lock status for a quiz
// @Tags events
// @Produce json
// @Success 200 {object} util.Response{data=service.LockStatus}
// @Router /api/quizzes/{id}/lock [get]
func (c *EventController) Lock(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	status, err := c.EventService.Lock(quizID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// ListForQuiz godoc
// @Summary Events of a quiz, optionally filtered by status
// @Tags events
// @Produce json
// @Param status query string false "STATIC, ACTIVE or HANDLED"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/events [get]
func (c *EventController) ListForQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var status *model.EventStatus
	if raw := ctx.Query("status"); raw != "" {
		s := model.EventStatus(raw)
		if s != model.EventStatic && s != model.EventActive && s != model.EventHandled {
			util.BadRequest(ctx, "invalid status filter")
			return
		}
		status = &s
	}
	events, err := c.EventService.ListForQuiz(quizID, claims.UserID, status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// ListAll returns every event in the system. Platform admins only, gated at
// the route.
func (c *EventController) ListAll(ctx *gin.Context) {
	events, err := c.EventService.ListAll()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

type resolveRequest struct {
	Note string `json:"note"`
}

// Resolve godoc
// @Summary Resolve an ACTIVE event, unlocking the student
// @Tags events
// @Accept json
// @Produce json
// @Param body body resolveRequest true "optional teacher note"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "event is not active"
// @Router /api/events/{id}/resolve [post]
func (c *EventController) Resolve(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req resolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	event, err := c.EventService.Resolve(eventID, claims.UserID, req.Note)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, event)
}
