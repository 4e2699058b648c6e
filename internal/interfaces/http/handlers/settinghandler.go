package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingapp "watchfleet/internal/application/setting"
	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

type saveSettingsRequest struct {
	Project string            `json:"project" binding:"required"`
	Fields  map[string]string `json:"fields" binding:"required"`
}

// SettingHandler serves per-project command settings.
type SettingHandler struct {
	settings *settingapp.Service
	logger   logger.Interface
}

func NewSettingHandler(settings *settingapp.Service, log logger.Interface) *SettingHandler {
	return &SettingHandler{settings: settings, logger: log}
}

// List returns all settings of a project as a field map.
func (h *SettingHandler) List(c *gin.Context) {
	rows, err := h.settings.ListByProject(c.Request.Context(), c.Param("project"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Field()] = row.Value()
	}
	utils.SuccessResponse(c, http.StatusOK, "", out)
}

// Save applies a map of setting updates; empty values clear the field.
func (h *SettingHandler) Save(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "project and fields are required")
		return
	}

	if err := h.settings.SaveAll(c.Request.Context(), req.Project, req.Fields); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "settings saved", nil)
}
