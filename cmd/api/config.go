package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/stakehouse/internal/infra/pgutils"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Owner is the identity allowed to call administrative operations.
	Owner string `env:"APP_OWNER"`
	// Treasury, when set, is configured as the fee sink at startup.
	Treasury string `env:"APP_TREASURY" envDefault:""`

	PGDSN    string `env:"PG_DSN"`
	Postgres postgresPool
}

type postgresPool struct {
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"0"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"0"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"0s"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"0s"`
}

func (p postgresPool) pool() pgutils.Pool {
	return pgutils.Pool{
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxIdleTime: p.ConnMaxIdleTime,
		ConnMaxLifetime: p.ConnMaxLifetime,
	}
}
