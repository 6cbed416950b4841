package controller

import (
	"cquizy_backend/internal/service"
	"cquizy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	ProjectService *service.ProjectService
}

func NewProjectController(projectService *service.ProjectService) *ProjectController {
	return &ProjectController{ProjectService: projectService}
}

// Create godoc
// @Summary Create a project with its blocks
// @Tags projects
// @Accept json
// @Produce json
// @Param body body service.ProjectInput true "project content"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "duplicate block order"
// @Router /api/projects [post]
func (c *ProjectController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.ProjectInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	project, err := c.ProjectService.Create(claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, project)
}

func (c *ProjectController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	projects, err := c.ProjectService.ListForCreator(claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, projects)
}

func (c *ProjectController) Detail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	projectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	project, err := c.ProjectService.FindByID(projectID, claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, project)
}

func (c *ProjectController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	projectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ProjectInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	project, err := c.ProjectService.Update(projectID, claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, project)
}

func (c *ProjectController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	projectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ProjectService.Delete(projectID, claims.UserID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
