package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// PostgresConfig configures the production database client. It
// satisfies the go-persistence-bun config contract.
type PostgresConfig struct {
	DSN             string
	Debug           bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
	OtelIdentifier  string
}

func (c PostgresConfig) GetDebug() bool {
	return c.Debug
}

func (c PostgresConfig) GetDriver() string {
	return "postgres"
}

func (c PostgresConfig) GetServer() string {
	return c.DSN
}

func (c PostgresConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c PostgresConfig) GetOtelIdentifier() string {
	if strings.TrimSpace(c.OtelIdentifier) == "" {
		return "go-ordersync"
	}
	return c.OtelIdentifier
}

// OpenPostgres opens a pooled postgres connection and wraps it in a
// persistence client ready for RegisterSQLMigrations and BuildStores.
func OpenPostgres(cfg PostgresConfig) (*persistence.Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}

	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	client, err := persistence.New(cfg, sqlDB, pgdialect.New())
	if err != nil {
		closeErr := sqlDB.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("sqlstore: new persistence client: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}
	return client, nil
}
