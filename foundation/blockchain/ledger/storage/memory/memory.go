// Package memory implements ledger storage in memory using maps and a slice
// for the program log.
package memory

import (
	"errors"
	"sync"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// Memory represents the storage implementation for holding accounts and
// the program log in memory. This implements the ledger.Storage interface.
type Memory struct {
	mu       sync.RWMutex
	slot     uint64
	accounts map[ledger.Address]ledger.Account
	logs     []ledger.LogEntry
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	m := Memory{
		accounts: make(map[ledger.Address]ledger.Account),
	}

	return &m, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Account returns a copy of the account at the address.
func (m *Memory) Account(address ledger.Address) (ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, exists := m.accounts[address]
	if !exists {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}

	return copyAccount(account), nil
}

// Accounts returns a copy of every account.
func (m *Memory) Accounts() ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]ledger.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		accounts = append(accounts, copyAccount(account))
	}

	return accounts, nil
}

// Logs walks the program log backwards collecting the entries that touched
// the address.
func (m *Memory) Logs(address ledger.Address, limit int) ([]ledger.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []ledger.LogEntry
	for i := len(m.logs) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) == limit {
			break
		}

		for _, a := range m.logs[i].Accounts {
			if a == address {
				entries = append(entries, m.logs[i])
				break
			}
		}
	}

	return entries, nil
}

// Slot returns the last committed slot.
func (m *Memory) Slot() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.slot, nil
}

// Commit applies the batch.
func (m *Memory) Commit(batch ledger.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if batch.Slot != 0 && batch.Slot <= m.slot {
		return errors.New("slot is out of order")
	}

	for _, account := range batch.Accounts {
		m.accounts[account.Address] = copyAccount(account)
	}

	if batch.Entry != nil {
		m.logs = append(m.logs, *batch.Entry)
	}

	m.slot = batch.Slot

	return nil
}

// =============================================================================

// copyAccount keeps callers from sharing the data slice held in memory.
func copyAccount(account ledger.Account) ledger.Account {
	if account.Data != nil {
		data := make([]byte, len(account.Data))
		copy(data, account.Data)
		account.Data = data
	}
	return account
}
