// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commute/internal/http/handlers"
	httpmiddleware "commute/internal/http/middleware"
	"commute/internal/modules/pricing"
	"commute/internal/modules/zone"
)

type ServerDeps struct {
	Pricing   *pricing.Service
	Manager   *zone.Manager
	Monitor   *zone.Monitor
	Samples   handlers.SampleSource
	Telemetry handlers.TelemetrySink
	Logger    *zap.Logger
}

func NewRouter(deps ServerDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(httpmiddleware.Recovery(log))
	r.Use(httpmiddleware.Logging(log))

	pricingHandler := handlers.NewPricingHandler(deps.Pricing, deps.Samples)
	r.POST("/api/trips/quote", pricingHandler.Quote)

	zoneHandler := handlers.NewZoneHandler(deps.Monitor, deps.Manager, deps.Telemetry)
	r.GET("/api/zones/:id/saturation", zoneHandler.GetSaturation)
	r.GET("/api/zones/:id/drivers", zoneHandler.ListActiveDrivers)
	r.POST("/api/zones/:id/telemetry", zoneHandler.PublishTelemetry)

	driverHandler := handlers.NewDriverHandler(deps.Manager)
	r.POST("/api/drivers/:id/assignment", driverHandler.RequestAssignment)
	r.POST("/api/drivers/:id/assignment/confirm", driverHandler.ConfirmAssignment)
	r.POST("/api/drivers/:id/assignment/release", driverHandler.ReleaseAssignment)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
