package sqlstore

import "github.com/goliatone/go-ordersync/core"

var (
	_ core.AccountStore           = (*AccountStore)(nil)
	_ core.ScanCursorStore        = (*ScanCursorStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
