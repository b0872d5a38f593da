package ordersync

import (
	"fmt"

	"github.com/goliatone/go-ordersync/core"
	"github.com/goliatone/go-ordersync/providers"
	"github.com/goliatone/go-ordersync/providers/email"
	"github.com/goliatone/go-ordersync/providers/retailer"
)

// RetailerProvider builds the retailer adapter from the service config.
func RetailerProvider(client retailer.LinkingClient, cfg Config, opts ...retailer.Option) (core.ProviderAdapter, error) {
	return retailer.New(client, providers.ClientContextFromConfig(cfg), opts...)
}

// EmailProvider builds the email receipt adapter from the service config.
func EmailProvider(client email.IMAPClient, cfg Config) (core.ProviderAdapter, error) {
	return email.New(client, providers.ClientContextFromConfig(cfg))
}

// RegisterProviders builds both adapters and registers them. A nil
// client skips that adapter so callers can wire one kind only.
func RegisterProviders(registry core.Registry, cfg Config, linking retailer.LinkingClient, imap email.IMAPClient) error {
	if registry == nil {
		return fmt.Errorf("ordersync: registry is required")
	}
	if linking == nil && imap == nil {
		return fmt.Errorf("ordersync: at least one provider client is required")
	}
	if linking != nil {
		adapter, err := RetailerProvider(linking, cfg)
		if err != nil {
			return err
		}
		if err := registry.Register(adapter); err != nil {
			return err
		}
	}
	if imap != nil {
		adapter, err := EmailProvider(imap, cfg)
		if err != nil {
			return err
		}
		if err := registry.Register(adapter); err != nil {
			return err
		}
	}
	return nil
}
