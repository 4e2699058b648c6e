package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	projectapp "watchfleet/internal/application/project"
	"watchfleet/internal/domain/project"
	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

// ProjectResponse is the wire shape of one project.
type ProjectResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	GroupID int    `json:"group_id,omitempty"`
}

func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:      p.ID(),
		Name:    p.Name(),
		URL:     p.URL(),
		GroupID: p.GroupID(),
	}
}

type saveProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	URL     string `json:"url"`
	GroupID int    `json:"group_id"`
}

// ProjectHandler serves project management.
type ProjectHandler struct {
	projects *projectapp.Service
	logger   logger.Interface
}

func NewProjectHandler(projects *projectapp.Service, log logger.Interface) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: log}
}

func (h *ProjectHandler) List(c *gin.Context) {
	all, err := h.projects.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ProjectResponse, len(all))
	for i, p := range all {
		out[i] = toProjectResponse(p)
	}
	utils.SuccessResponse(c, http.StatusOK, "", out)
}

func (h *ProjectHandler) Save(c *gin.Context) {
	var req saveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "project name is required")
		return
	}

	p, err := h.projects.Save(c.Request.Context(), projectapp.SaveInput{
		Name:    req.Name,
		URL:     req.URL,
		GroupID: req.GroupID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "project saved", toProjectResponse(p))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.projects.Delete(c.Request.Context(), name); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "project deleted", nil)
}
