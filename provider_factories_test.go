package ordersync

import (
	"testing"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers/devkit"
)

func factoryTestConfig() Config {
	cfg := DefaultConfig()
	cfg.LicenseKey = "license"
	cfg.ProductKey = "product"
	cfg.Lookback.MaxDays = 30
	return cfg
}

func TestProviderFactories(t *testing.T) {
	cfg := factoryTestConfig()

	retailerAdapter, err := RetailerProvider(devkit.NewScriptedLinkingClient(), cfg)
	if err != nil {
		t.Fatalf("retailer factory: %v", err)
	}
	if retailerAdapter.Kind() != core.ProviderKindRetailer {
		t.Fatalf("expected retailer kind, got %q", retailerAdapter.Kind())
	}
	if len(retailerAdapter.Sources()) == 0 {
		t.Fatalf("expected retailer sources")
	}

	emailAdapter, err := EmailProvider(devkit.NewScriptedIMAPClient(), cfg)
	if err != nil {
		t.Fatalf("email factory: %v", err)
	}
	if emailAdapter.Kind() != core.ProviderKindEmail {
		t.Fatalf("expected email kind, got %q", emailAdapter.Kind())
	}
}

func TestProviderFactoriesRejectMissingKeys(t *testing.T) {
	cfg := factoryTestConfig()
	cfg.LicenseKey = ""

	if _, err := RetailerProvider(devkit.NewScriptedLinkingClient(), cfg); err == nil {
		t.Fatalf("expected missing license key to fail")
	}
	if _, err := EmailProvider(devkit.NewScriptedIMAPClient(), cfg); err == nil {
		t.Fatalf("expected missing license key to fail")
	}
}

func TestRegisterProviders(t *testing.T) {
	cfg := factoryTestConfig()
	registry := core.NewAdapterRegistry()

	err := RegisterProviders(registry, cfg, devkit.NewScriptedLinkingClient(), devkit.NewScriptedIMAPClient())
	if err != nil {
		t.Fatalf("register providers: %v", err)
	}
	if _, ok := registry.Get(core.ProviderKindRetailer); !ok {
		t.Fatalf("expected retailer adapter registered")
	}
	if _, ok := registry.Get(core.ProviderKindEmail); !ok {
		t.Fatalf("expected email adapter registered")
	}

	if err := RegisterProviders(nil, cfg, devkit.NewScriptedLinkingClient(), nil); err == nil {
		t.Fatalf("expected nil registry to fail")
	}
	if err := RegisterProviders(core.NewAdapterRegistry(), cfg, nil, nil); err == nil {
		t.Fatalf("expected missing clients to fail")
	}
}

func TestRegisterProvidersSkipsNilClient(t *testing.T) {
	cfg := factoryTestConfig()
	registry := core.NewAdapterRegistry()

	if err := RegisterProviders(registry, cfg, nil, devkit.NewScriptedIMAPClient()); err != nil {
		t.Fatalf("register email only: %v", err)
	}
	if _, ok := registry.Get(core.ProviderKindRetailer); ok {
		t.Fatalf("expected no retailer adapter")
	}
	if _, ok := registry.Get(core.ProviderKindEmail); !ok {
		t.Fatalf("expected email adapter registered")
	}
}
