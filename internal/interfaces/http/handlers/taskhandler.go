package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"watchfleet/internal/application/command"
	deviceapp "watchfleet/internal/application/device"
	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

type checkOnlineRequest struct {
	IMEIs string `json:"imeis" binding:"required"`
}

type batchRequest struct {
	IMEIs     []string `json:"imeis" binding:"required"`
	Operation string   `json:"operation" binding:"required"`
	Project   string   `json:"project"`
	Message   string   `json:"message"`
}

// TaskHandler serves device commands and fleet maintenance operations.
type TaskHandler struct {
	commands   *command.Service
	reconciler *deviceapp.Reconciler
	logger     logger.Interface
}

func NewTaskHandler(commands *command.Service, reconciler *deviceapp.Reconciler, log logger.Interface) *TaskHandler {
	return &TaskHandler{commands: commands, reconciler: reconciler, logger: log}
}

// Run executes one operation against one device. The project query parameter
// supplies settings context; message carries the send_message payload.
func (h *TaskHandler) Run(c *gin.Context) {
	op, err := command.ParseOperation(c.Param("operation"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	imei := c.Param("imei")
	projectName := c.Query("project")
	message := c.Query("message")

	outcome, err := h.commands.Run(c.Request.Context(), op, imei, projectName, message)
	if err != nil {
		respondError(c, err)
		return
	}

	if op.AffectsPower() && outcome.Ok() {
		h.reconciler.InvalidateOnline(c.Request.Context(), []string{imei})
	}

	utils.SuccessResponse(c, http.StatusOK, "", outcome)
}

// RunBatch executes one operation against a list of devices and returns one
// outcome per IMEI; partial failures never turn into a bare error.
func (h *TaskHandler) RunBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "imeis and operation are required")
		return
	}

	op, err := command.ParseOperation(req.Operation)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcomes, err := h.commands.RunBatch(c.Request.Context(), req.IMEIs, op, req.Project, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	if op.AffectsPower() {
		var succeeded []string
		for _, outcome := range outcomes {
			if outcome.Ok() {
				succeeded = append(succeeded, outcome.IMEI)
			}
		}
		if len(succeeded) > 0 {
			h.reconciler.InvalidateOnline(c.Request.Context(), succeeded)
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", outcomes)
}

// CheckOnline reports reachability for a comma-separated IMEI list.
func (h *TaskHandler) CheckOnline(c *gin.Context) {
	var req checkOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "no imeis provided")
		return
	}

	imeis := splitIMEIs(req.IMEIs)
	if len(imeis) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "no imeis provided")
		return
	}

	online, err := h.reconciler.CheckOnline(c.Request.Context(), imeis)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", online)
}

// Reconcile syncs one project's device rows against the upstream listing.
func (h *TaskHandler) Reconcile(c *gin.Context) {
	report, err := h.reconciler.Reconcile(c.Request.Context(), c.Param("project"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// SyncGroup ensures the project's upstream group exists and contains all of
// its devices.
func (h *TaskHandler) SyncGroup(c *gin.Context) {
	report, err := h.reconciler.SyncGroup(c.Request.Context(), c.Param("project"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// UpdateICCID refreshes iccid values from the upstream listing. An optional
// group_id query narrows the listing.
func (h *TaskHandler) UpdateICCID(c *gin.Context) {
	groupID := 0
	if raw := c.Query("group_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid group_id")
			return
		}
		groupID = parsed
	}

	updated, err := h.reconciler.UpdateICCID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"updated": updated})
}

func splitIMEIs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
