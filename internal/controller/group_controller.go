package controller

import (
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
	GradeService *service.GradeService
}

func NewGroupController(groupService *service.GroupService, gradeService *service.GradeService) *GroupController {
	return &GroupController{GroupService: groupService, GradeService: gradeService}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// Create godoc
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param body body service.CreateGroupInput true "group settings"
// @Success 201 {object} util.Response
// @Router /api/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.CreateGroupInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Create(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

type joinGroupRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// Join godoc
// @Summary Join a group by invite code
// @Tags groups
// @Accept json
// @Produce json
// @Param body body joinGroupRequest true "invite code"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "unknown invite code"
// @Failure 409 {object} util.Response "already a member"
// @Router /api/groups/join [post]
func (c *GroupController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req joinGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Join(claims.UserID, req.InviteCode)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// List godoc
// @Summary Groups the caller belongs to
// @Tags groups
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groups, err := c.GroupService.ListForUser(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

func (c *GroupController) Detail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	group, err := c.GroupService.Detail(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

func (c *GroupController) Members(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	members, err := c.GroupService.Members(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, members)
}

func (c *GroupController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateGroupInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.GroupService.Update(groupID, claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

func (c *GroupController) RegenerateInviteCode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	group, err := c.GroupService.RegenerateInviteCode(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"inviteCode": util.FormatInviteCode(group.InviteCode)})
}

func (c *GroupController) Kick(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}
	if err := c.GroupService.Kick(groupID, claims.UserID, userID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *GroupController) Leave(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.GroupService.Leave(groupID, claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type transferRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

func (c *GroupController) Transfer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req transferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.GroupService.Transfer(groupID, claims.UserID, req.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *GroupController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.GroupService.Delete(groupID, claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateBand godoc
// @Summary Add a grade band to a group
// @Tags grades
// @Accept json
// @Produce json
// @Param body body service.GradeBandInput true "band definition"
// @Success 201 {object} util.Response
// @Router /api/groups/{id}/bands [post]
func (c *GroupController) CreateBand(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.GradeBandInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	band, err := c.GradeService.CreateBand(groupID, claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, band)
}

func (c *GroupController) ListBands(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	bands, err := c.GradeService.ListBands(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, bands)
}

func (c *GroupController) UpdateBand(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	bandID, ok := pathID(ctx, "bandId")
	if !ok {
		return
	}
	var req service.GradeBandInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	band, err := c.GradeService.UpdateBand(bandID, claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, band)
}

func (c *GroupController) DeactivateBand(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	bandID, ok := pathID(ctx, "bandId")
	if !ok {
		return
	}
	if err := c.GradeService.DeactivateBand(bandID, claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *GroupController) ListGrades(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	groupID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	grades, err := c.GradeService.ListGrades(groupID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}
