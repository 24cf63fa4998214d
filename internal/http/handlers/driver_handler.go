// README: Driver assignment handlers for request/confirm/release.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commute/internal/modules/zone"
	"commute/internal/types"
)

type DriverHandler struct {
	manager *zone.Manager
}

func NewDriverHandler(manager *zone.Manager) *DriverHandler {
	return &DriverHandler{manager: manager}
}

type requestAssignmentReq struct {
	ZoneID string `json:"zone_id"`
}

func (h *DriverHandler) RequestAssignment(c *gin.Context) {
	driverID := c.Param("id")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req requestAssignmentReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ZoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone_id")
		return
	}

	a, err := h.manager.Request(types.ID(driverID), types.ID(req.ZoneID))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *DriverHandler) ConfirmAssignment(c *gin.Context) {
	driverID := c.Param("id")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	a, err := h.manager.Confirm(types.ID(driverID))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type releaseAssignmentReq struct {
	Reason string `json:"reason"`
}

func (h *DriverHandler) ReleaseAssignment(c *gin.Context) {
	driverID := c.Param("id")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "missing driver id")
		return
	}
	var req releaseAssignmentReq
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "driver_release"
	}

	if err := h.manager.Release(types.ID(driverID), req.Reason); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "released"})
}
