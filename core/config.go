package core

import (
	"fmt"
	"strings"
)

type LookbackConfig struct {
	// MaxDays caps how far back an order scan may reach. There is no
	// safe universal default, so callers must set it explicitly.
	MaxDays int `koanf:"max_days" mapstructure:"max_days"`
}

type SyncConfig struct {
	MaxConcurrent int `koanf:"max_concurrent" mapstructure:"max_concurrent"`
}

type Config struct {
	ServiceName      string         `koanf:"service_name" mapstructure:"service_name"`
	LicenseKey       string         `koanf:"license_key" mapstructure:"license_key"`
	ProductKey       string         `koanf:"product_key" mapstructure:"product_key"`
	CountryCode      string         `koanf:"country_code" mapstructure:"country_code"`
	LatestOrdersOnly bool           `koanf:"latest_orders_only" mapstructure:"latest_orders_only"`
	Lookback         LookbackConfig `koanf:"lookback" mapstructure:"lookback"`
	Sync             SyncConfig     `koanf:"sync" mapstructure:"sync"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "ordersync",
		CountryCode: "US",
		Sync: SyncConfig{
			MaxConcurrent: 4,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.LicenseKey) == "" {
		return fmt.Errorf("core: license_key is required")
	}
	if strings.TrimSpace(c.ProductKey) == "" {
		return fmt.Errorf("core: product_key is required")
	}
	if c.Lookback.MaxDays <= 0 {
		return fmt.Errorf("core: lookback.max_days must be greater than zero")
	}
	if c.Sync.MaxConcurrent <= 0 {
		return fmt.Errorf("core: sync.max_concurrent must be greater than zero")
	}
	return nil
}
