package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN" default:""`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" default:""`
	DB       int    `env:"REDIS_DB" default:"0"`
	Prefix   string `env:"REDIS_PREFIX" default:"points"`
}

// MemoryConfig drives the in-process stores.
type MemoryConfig struct {
	// Seed is "id=balance,id=balance".
	Seed    string        `env:"MEMORY_SEED" default:""`
	Latency time.Duration `env:"MEMORY_LATENCY" default:"0s"`
}

type PointsConfig struct {
	LockTimeout   time.Duration `env:"POINTS_LOCK_TIMEOUT" default:"5s"`
	HistoryAmount string        `env:"POINTS_HISTORY_AMOUNT" default:"delta"`
}
