package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	projectapp "watchfleet/internal/application/project"
	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

type createGroupRequest struct {
	GroupName   string `json:"group_name" binding:"required"`
	Description string `json:"description"`
}

// GroupHandler serves upstream device group management.
type GroupHandler struct {
	projects *projectapp.Service
	logger   logger.Interface
}

func NewGroupHandler(projects *projectapp.Service, log logger.Interface) *GroupHandler {
	return &GroupHandler{projects: projects, logger: log}
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.projects.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", groups)
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "group name is required")
		return
	}

	groupID, err := h.projects.CreateGroup(c.Request.Context(), req.GroupName, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"group_id": groupID}, "group created")
}

func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("gid"))
	if err != nil || groupID <= 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.projects.DeleteGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "group deleted", nil)
}
