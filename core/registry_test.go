package core

import (
	"context"
	"strings"
	"testing"
)

type registryAdapter struct {
	kind    ProviderKind
	sources []string
}

func (a registryAdapter) Kind() ProviderKind { return a.kind }
func (a registryAdapter) Sources() []string  { return a.sources }
func (a registryAdapter) Link(context.Context, string, Credentials) (bool, error) {
	return true, nil
}
func (a registryAdapter) Verify(context.Context, Account, VerifyCallbacks)     {}
func (a registryAdapter) Orders(context.Context, Account, int, OrderCallbacks) {}
func (a registryAdapter) Unlink(context.Context, Account) error                { return nil }
func (a registryAdapter) Accounts(context.Context) ([]RawAccount, error)       { return nil, nil }

func TestAdapterRegistry_RegisterAndLookup(t *testing.T) {
	registry := NewAdapterRegistry()
	err := registry.Register(registryAdapter{
		kind:    ProviderKindRetailer,
		sources: []string{"Amazon", "walmart"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, ok := registry.Get(ProviderKindRetailer); !ok {
		t.Fatalf("expected retailer adapter by kind")
	}
	if _, ok := registry.BySource("amazon"); !ok {
		t.Fatalf("expected lookup by lowercased source")
	}
	if _, ok := registry.BySource(" WALMART "); !ok {
		t.Fatalf("expected lookup to normalize the slug")
	}
	if _, ok := registry.BySource("target"); ok {
		t.Fatalf("unexpected adapter for unclaimed source")
	}
}

func TestAdapterRegistry_RejectsDuplicates(t *testing.T) {
	registry := NewAdapterRegistry()
	if err := registry.Register(registryAdapter{kind: ProviderKindRetailer, sources: []string{"amazon"}}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := registry.Register(registryAdapter{kind: ProviderKindRetailer, sources: []string{"target"}})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate kind rejection, got: %v", err)
	}

	err = registry.Register(registryAdapter{kind: ProviderKindEmail, sources: []string{"amazon"}})
	if err == nil || !strings.Contains(err.Error(), "already claimed") {
		t.Fatalf("expected duplicate source rejection, got: %v", err)
	}
}

func TestAdapterRegistry_RejectsInvalidAdapters(t *testing.T) {
	registry := NewAdapterRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil adapter rejection")
	}
	if err := registry.Register(registryAdapter{kind: ProviderKind("banking"), sources: []string{"x"}}); err == nil {
		t.Fatalf("expected invalid kind rejection")
	}
	if err := registry.Register(registryAdapter{kind: ProviderKindEmail}); err == nil {
		t.Fatalf("expected empty sources rejection")
	}
}

func TestAdapterRegistry_ListIsOrdered(t *testing.T) {
	registry := NewAdapterRegistry()
	if err := registry.Register(registryAdapter{kind: ProviderKindRetailer, sources: []string{"amazon"}}); err != nil {
		t.Fatalf("register retailer: %v", err)
	}
	if err := registry.Register(registryAdapter{kind: ProviderKindEmail, sources: []string{"gmail"}}); err != nil {
		t.Fatalf("register email: %v", err)
	}
	list := registry.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(list))
	}
	if list[0].Kind() != ProviderKindEmail || list[1].Kind() != ProviderKindRetailer {
		t.Fatalf("expected kind-ordered listing, got %v %v", list[0].Kind(), list[1].Kind())
	}
}
