package core

import (
	"sort"
	"strings"
	"sync"
)

// AccountDirectory is the in-memory record of linked accounts plus the
// per-account verification bookkeeping: the in-flight guard and any
// challenge waiting on user input.
type AccountDirectory struct {
	mu         sync.RWMutex
	accounts   map[string]Account
	inflight   map[string]struct{}
	challenges map[string]VerificationChallenge
}

func NewAccountDirectory() *AccountDirectory {
	return &AccountDirectory{
		accounts:   make(map[string]Account),
		inflight:   make(map[string]struct{}),
		challenges: make(map[string]VerificationChallenge),
	}
}

func (d *AccountDirectory) Put(account Account) {
	d.mu.Lock()
	d.accounts[account.ID] = account
	d.mu.Unlock()
}

func (d *AccountDirectory) Get(id string) (Account, bool) {
	d.mu.RLock()
	account, ok := d.accounts[strings.TrimSpace(id)]
	d.mu.RUnlock()
	return account, ok
}

func (d *AccountDirectory) Remove(id string) {
	id = strings.TrimSpace(id)
	d.mu.Lock()
	delete(d.accounts, id)
	delete(d.inflight, id)
	delete(d.challenges, id)
	d.mu.Unlock()
}

func (d *AccountDirectory) List() []Account {
	d.mu.RLock()
	ids := make([]string, 0, len(d.accounts))
	for id := range d.accounts {
		ids = append(ids, id)
	}
	accounts := make([]Account, 0, len(ids))
	sort.Strings(ids)
	for _, id := range ids {
		accounts = append(accounts, d.accounts[id])
	}
	d.mu.RUnlock()
	return accounts
}

// BeginVerification reserves the verification slot for an account.
// A second concurrent attempt for the same account fails with
// ErrVerificationPending.
func (d *AccountDirectory) BeginVerification(id string) error {
	id = strings.TrimSpace(id)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[id]; busy {
		return ErrVerificationPending
	}
	d.inflight[id] = struct{}{}
	return nil
}

func (d *AccountDirectory) EndVerification(id string) {
	d.mu.Lock()
	delete(d.inflight, strings.TrimSpace(id))
	d.mu.Unlock()
}

func (d *AccountDirectory) SetChallenge(challenge VerificationChallenge) {
	d.mu.Lock()
	d.challenges[challenge.AccountID] = challenge
	d.mu.Unlock()
}

func (d *AccountDirectory) Challenge(id string) (VerificationChallenge, bool) {
	d.mu.RLock()
	challenge, ok := d.challenges[strings.TrimSpace(id)]
	d.mu.RUnlock()
	return challenge, ok
}

func (d *AccountDirectory) ClearChallenge(id string) {
	d.mu.Lock()
	delete(d.challenges, strings.TrimSpace(id))
	d.mu.Unlock()
}
