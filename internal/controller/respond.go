package controller

import (
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps the service error taxonomy onto HTTP statuses. Handlers
// call it as the fallthrough after any handler-specific cases.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)

	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotGroupMember):
		util.Error(ctx, http.StatusForbidden, err.Error())

	case errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrAlreadyMember),
		errors.Is(err, util.ErrEventNotActive):
		util.Error(ctx, http.StatusConflict, err.Error())

	case errors.Is(err, util.ErrQuizNotStarted),
		errors.Is(err, util.ErrQuizEnded),
		errors.Is(err, util.ErrQuizWindow),
		errors.Is(err, util.ErrEmptyAnswers),
		errors.Is(err, util.ErrInviteCodeUnknown),
		errors.Is(err, util.ErrDuplicateBlockOrder),
		errors.Is(err, service.ErrBandRangeInverted):
		util.BadRequest(ctx, err.Error())

	case errors.Is(err, util.ErrGroupHasNoAdmin):
		// Configuration fault: surfaced verbatim so the operator sees what
		// to fix, unlike the generic 500.
		util.Error(ctx, http.StatusInternalServerError, err.Error())

	default:
		util.LogInternalError(ctx, err)
	}
}
