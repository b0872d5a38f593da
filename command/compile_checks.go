package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[LinkAccountMessage]      = (*LinkAccountCommand)(nil)
	_ gocmd.Commander[VerifyAccountMessage]    = (*VerifyAccountCommand)(nil)
	_ gocmd.Commander[ResolveChallengeMessage] = (*ResolveChallengeCommand)(nil)
	_ gocmd.Commander[RemoveAccountMessage]    = (*RemoveAccountCommand)(nil)
	_ gocmd.Commander[FetchOrdersMessage]      = (*FetchOrdersCommand)(nil)
	_ gocmd.Commander[FetchAllOrdersMessage]   = (*FetchAllOrdersCommand)(nil)
	_ gocmd.Commander[ScheduleSyncMessage]     = (*ScheduleSyncCommand)(nil)
	_ gocmd.Commander[ScheduleSyncAllMessage]  = (*ScheduleSyncAllCommand)(nil)
	_ gocmd.Commander[ClearCursorMessage]      = (*ClearCursorCommand)(nil)
)
