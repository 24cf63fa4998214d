// README: Trip quote handler; joins live telemetry with the pricing engine.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"commute/internal/modules/pricing"
	"commute/internal/modules/signal"
	"commute/internal/types"
)

// SampleSource hands live demand/traffic readings to the quote path
// (telemetry.Service). Nil samples mean "no live reading".
type SampleSource interface {
	Samples(ctx context.Context, zoneID types.ID) (*signal.DemandSample, *signal.TrafficSample)
}

type PricingHandler struct {
	pricing *pricing.Service
	samples SampleSource
}

func NewPricingHandler(svc *pricing.Service, samples SampleSource) *PricingHandler {
	return &PricingHandler{pricing: svc, samples: samples}
}

type quoteReq struct {
	Origin       types.GeoPoint `json:"origin"`
	Destination  types.GeoPoint `json:"destination"`
	CostFactor   float64        `json:"cost_factor"`
	Weather      string         `json:"weather"`
	SpecialEvent bool           `json:"special_event"`
	OriginZoneID string         `json:"origin_zone_id"`
}

func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var demand *signal.DemandSample
	var traffic *signal.TrafficSample
	if h.samples != nil && req.OriginZoneID != "" {
		demand, traffic = h.samples.Samples(c.Request.Context(), types.ID(req.OriginZoneID))
	}

	result, err := h.pricing.Quote(pricing.QuoteRequest{
		Origin:         req.Origin,
		Destination:    req.Destination,
		CostFactor:     req.CostFactor,
		Now:            time.Now(),
		Demand:         demand,
		Traffic:        traffic,
		Weather:        pricing.Weather(req.Weather),
		IsSpecialEvent: req.SpecialEvent,
		OriginZone:     types.ID(req.OriginZoneID),
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
