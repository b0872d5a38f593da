package sqlstore

import (
	"testing"
	"time"
)

func TestPostgresConfigDefaults(t *testing.T) {
	cfg := PostgresConfig{DSN: "postgres://localhost:5432/ordersync"}

	if cfg.GetDriver() != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.GetDriver())
	}
	if cfg.GetServer() != cfg.DSN {
		t.Fatalf("expected server to mirror dsn")
	}
	if cfg.GetPingTimeout() != 5*time.Second {
		t.Fatalf("expected default ping timeout, got %s", cfg.GetPingTimeout())
	}
	if cfg.GetOtelIdentifier() != "go-ordersync" {
		t.Fatalf("expected default otel identifier, got %q", cfg.GetOtelIdentifier())
	}

	cfg.PingTimeout = time.Second
	cfg.OtelIdentifier = "orders-db"
	if cfg.GetPingTimeout() != time.Second {
		t.Fatalf("expected configured ping timeout")
	}
	if cfg.GetOtelIdentifier() != "orders-db" {
		t.Fatalf("expected configured otel identifier")
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	if _, err := OpenPostgres(PostgresConfig{}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}
