// README: Config loader with env defaults for HTTP, DB, Redis, maps, and engine settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type EngineConfig struct {
	// AverageSpeedKmh is the assumed trip speed when estimating duration
	// from straight-line distance.
	AverageSpeedKmh float64
	// DisconnectGrace is how long a driver assignment may go without an
	// update before the reconciler expires it.
	DisconnectGrace time.Duration
	// ReconcileTick is the interval of the consistency backstop pass.
	ReconcileTick time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		// DSN is optional; without it zones come from static config and
		// released assignments are not archived.
		DSN string
	}
	Redis struct {
		Addr string
	}
	Maps struct {
		// APIKey enables the live traffic sampler when set.
		APIKey     string
		SampleTick time.Duration
	}
	Log struct {
		Level string
	}
	Engine EngineConfig
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("COMMUTE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("COMMUTE_DB_DSN")
	cfg.Redis.Addr = envOrDefault("COMMUTE_REDIS_ADDR", "localhost:6379")
	cfg.Maps.APIKey = os.Getenv("COMMUTE_MAPS_API_KEY")
	cfg.Maps.SampleTick = time.Duration(envOrDefaultInt("COMMUTE_TRAFFIC_SAMPLE_SEC", 60)) * time.Second
	cfg.Log.Level = envOrDefault("COMMUTE_LOG_LEVEL", "info")
	cfg.Engine.AverageSpeedKmh = envOrDefaultFloat("COMMUTE_AVG_SPEED_KMH", 30.0)
	cfg.Engine.DisconnectGrace = time.Duration(envOrDefaultInt("COMMUTE_DISCONNECT_GRACE_SEC", 300)) * time.Second
	cfg.Engine.ReconcileTick = time.Duration(envOrDefaultInt("COMMUTE_RECONCILE_TICK_SEC", 30)) * time.Second
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
