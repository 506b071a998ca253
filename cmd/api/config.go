package main

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fastprodman/points/internal/config"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverRedis    = "redis"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     string        `env:"APP_CORS_ORIGINS" default:"*"`
	StorageDriver   string        `env:"STORAGE_DRIVER" default:"memory"`

	Memory   config.MemoryConfig
	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Points   config.PointsConfig
}

func (c *apiConfig) corsOrigins() []string {
	var out []string

	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}

	return out
}
