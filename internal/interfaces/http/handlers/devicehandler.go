package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	deviceapp "watchfleet/internal/application/device"
	"watchfleet/internal/domain/device"
	"watchfleet/internal/shared/logger"
	"watchfleet/internal/shared/utils"
)

// DeviceResponse is the wire shape of one device row.
type DeviceResponse struct {
	ID              uint   `json:"id"`
	IMEI            string `json:"imei"`
	Project         string `json:"project"`
	ICCID           string `json:"iccid,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	GroupID         int    `json:"group_id,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Created         string `json:"created"`
	Updated         string `json:"updated,omitempty"`
}

func toDeviceResponse(d *device.Device) DeviceResponse {
	resp := DeviceResponse{
		ID:              d.ID(),
		IMEI:            d.IMEI(),
		Project:         d.Project(),
		ICCID:           d.ICCID(),
		FirmwareVersion: d.FirmwareVersion(),
		GroupID:         d.GroupID(),
		PhoneNumber:     d.PhoneNumber(),
		Created:         d.Created().Format(time.RFC3339),
	}
	if !d.Updated().IsZero() {
		resp.Updated = d.Updated().Format(time.RFC3339)
	}
	return resp
}

type listDevicesRequest struct {
	IMEI   string   `json:"imei"`
	IMEIs  []string `json:"imeis"`
	Search string   `json:"search"`
}

type saveDeviceRequest struct {
	IMEI            string `json:"imei" binding:"required"`
	ICCID           string `json:"iccid"`
	PhoneNumber     string `json:"phone_number"`
	FirmwareVersion string `json:"firmware_version"`
}

// DeviceHandler serves device listing and manual registration.
type DeviceHandler struct {
	devices *deviceapp.Service
	logger  logger.Interface
}

func NewDeviceHandler(devices *deviceapp.Service, log logger.Interface) *DeviceHandler {
	return &DeviceHandler{devices: devices, logger: log}
}

// List returns a project's devices, optionally filtered by the request body.
func (h *DeviceHandler) List(c *gin.Context) {
	projectName := c.Param("project")

	var req listDevicesRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid device list filter", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid filter body")
			return
		}
	}

	devices, err := h.devices.List(c.Request.Context(), projectName, device.ListFilter{
		IMEI:   req.IMEI,
		IMEIs:  req.IMEIs,
		Search: req.Search,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]DeviceResponse, len(devices))
	for i, d := range devices {
		out[i] = toDeviceResponse(d)
	}
	utils.SuccessResponse(c, http.StatusOK, "", out)
}

// Save registers or edits a device under a project.
func (h *DeviceHandler) Save(c *gin.Context) {
	projectName := c.Param("project")

	var req saveDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "imei is required")
		return
	}

	d, err := h.devices.Save(c.Request.Context(), projectName, deviceapp.SaveInput{
		IMEI:            req.IMEI,
		ICCID:           req.ICCID,
		PhoneNumber:     req.PhoneNumber,
		FirmwareVersion: req.FirmwareVersion,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "device saved", toDeviceResponse(d))
}
