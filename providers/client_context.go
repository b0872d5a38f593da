package providers

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-ordersync/core"
)

// DefaultDayCutoff is the widest scan window provider clients accept.
const DefaultDayCutoff = 500

// ClientContext carries the per-process provider client settings. Each
// adapter gets its own copy; there is no package-level state.
type ClientContext struct {
	LicenseKey       string
	ProductKey       string
	CountryCode      string
	DayCutoff        int
	LatestOrdersOnly bool
}

// ClientContextFromConfig derives the provider client settings from the
// resolved service configuration.
func ClientContextFromConfig(cfg core.Config) ClientContext {
	return ClientContext{
		LicenseKey:       cfg.LicenseKey,
		ProductKey:       cfg.ProductKey,
		CountryCode:      cfg.CountryCode,
		DayCutoff:        DefaultDayCutoff,
		LatestOrdersOnly: cfg.LatestOrdersOnly,
	}
}

func (c ClientContext) Validate() error {
	if strings.TrimSpace(c.LicenseKey) == "" {
		return fmt.Errorf("providers: license key is required")
	}
	if strings.TrimSpace(c.ProductKey) == "" {
		return fmt.Errorf("providers: product key is required")
	}
	if strings.TrimSpace(c.CountryCode) == "" {
		return fmt.Errorf("providers: country code is required")
	}
	if c.DayCutoff <= 0 {
		return fmt.Errorf("providers: day cutoff must be greater than zero")
	}
	return nil
}
