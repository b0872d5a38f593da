package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-ordersync/core"
)

var (
	_ gocmd.Querier[ListAccountsMessage, []core.Account]   = (*ListAccountsQuery)(nil)
	_ gocmd.Querier[GetAccountMessage, core.Account]       = (*GetAccountQuery)(nil)
	_ gocmd.Querier[GetScanCursorMessage, core.ScanCursor] = (*GetScanCursorQuery)(nil)
)
