// README: Entry point; loads config, wires the engine, starts HTTP server and background loops.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"commute/internal/config"
	httptransport "commute/internal/http"
	"commute/internal/infra"
	"commute/internal/logger"
	"commute/internal/maps"
	"commute/internal/modules/pricing"
	"commute/internal/modules/telemetry"
	"commute/internal/modules/zone"
	"commute/internal/types"
)

// defaultZones seeds the registry when no database is configured, so the
// engine runs standalone.
var defaultZones = []zone.Zone{
	{ID: "z-downtown", Name: "Downtown", Center: types.GeoPoint{Lat: 25.0330, Lng: 121.5654}, RadiusKm: 2, Capacity: 10},
	{ID: "z-station", Name: "Main Station", Center: types.GeoPoint{Lat: 25.0478, Lng: 121.5170}, RadiusKm: 2, Capacity: 5},
	{ID: "z-airport", Name: "Airport", Center: types.GeoPoint{Lat: 25.0797, Lng: 121.2342}, RadiusKm: 3, Capacity: 8},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zones := defaultZones
	var archiver zone.Archiver
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			zlog.Fatal("db init", zap.Error(err))
		}
		defer dbPool.Close()

		zoneStore := zone.NewStore(dbPool)
		loaded, err := zoneStore.LoadZones(ctx)
		if err != nil {
			zlog.Fatal("load zones", zap.Error(err))
		}
		if len(loaded) > 0 {
			zones = loaded
		}
		archiver = zoneStore
	}

	registry := zone.NewRegistry()
	for _, z := range zones {
		if err := registry.Register(z); err != nil {
			zlog.Fatal("register zone", zap.String("zone_id", string(z.ID)), zap.Error(err))
		}
	}

	monitor := zone.NewMonitor(registry, zone.DefaultThresholds())
	manager := zone.NewManager(registry, monitor, cfg.Engine.DisconnectGrace, archiver, zlog)
	incentive := zone.NewIncentive(monitor, zone.DefaultIncentives())
	pricingSvc := pricing.NewService(pricing.DefaultRates(), pricing.DefaultMultipliers(), cfg.Engine.AverageSpeedKmh, incentive)

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	telemetryStore := telemetry.NewStore(redisClient)
	telemetrySvc := telemetry.NewService(telemetryStore, zlog)

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Pricing:   pricingSvc,
		Manager:   manager,
		Monitor:   monitor,
		Samples:   telemetrySvc,
		Telemetry: telemetrySvc,
		Logger:    zlog,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go manager.RunReconciler(ctx, cfg.Engine.ReconcileTick)

	if cfg.Maps.APIKey != "" {
		trafficSvc, err := maps.NewTrafficService(cfg.Maps.APIKey, zlog)
		if err != nil {
			zlog.Fatal("maps init", zap.Error(err))
		}
		probes := make([]maps.ZoneProbe, 0, len(zones))
		for _, z := range zones {
			probes = append(probes, maps.ZoneProbe{ZoneID: z.ID, Center: z.Center})
		}
		go trafficSvc.RunSampler(ctx, probes, telemetrySvc, cfg.Maps.SampleTick)
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server", zap.Error(err))
	}
}
