// README: Zone saturation, active-driver listing, and telemetry intake handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"commute/internal/modules/zone"
	"commute/internal/types"
)

// TelemetrySink receives collaborator-pushed live samples (telemetry.Service).
type TelemetrySink interface {
	Publish(ctx context.Context, zoneID types.ID, availableDrivers *int, congestion *float64, pendingTrip bool) error
}

type ZoneHandler struct {
	monitor   *zone.Monitor
	manager   *zone.Manager
	telemetry TelemetrySink
}

func NewZoneHandler(monitor *zone.Monitor, manager *zone.Manager, telemetry TelemetrySink) *ZoneHandler {
	return &ZoneHandler{monitor: monitor, manager: manager, telemetry: telemetry}
}

func (h *ZoneHandler) GetSaturation(c *gin.Context) {
	zoneID := c.Param("id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone id")
		return
	}
	snap, err := h.monitor.Get(types.ID(zoneID))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ZoneHandler) ListActiveDrivers(c *gin.Context) {
	zoneID := c.Param("id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone id")
		return
	}
	list, err := h.manager.ListActive(types.ID(zoneID))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone_id": zoneID, "active": list})
}

type telemetryReq struct {
	AvailableDrivers *int     `json:"available_drivers"`
	CongestionIndex  *float64 `json:"congestion_index"`
	PendingTrip      bool     `json:"pending_trip"`
}

func (h *ZoneHandler) PublishTelemetry(c *gin.Context) {
	zoneID := c.Param("id")
	if zoneID == "" {
		writeError(c, http.StatusBadRequest, "missing zone id")
		return
	}
	if h.telemetry == nil {
		writeError(c, http.StatusServiceUnavailable, "telemetry not configured")
		return
	}
	var req telemetryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.telemetry.Publish(c.Request.Context(), types.ID(zoneID), req.AvailableDrivers, req.CongestionIndex, req.PendingTrip); err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}
