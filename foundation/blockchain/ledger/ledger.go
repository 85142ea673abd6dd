// Package ledger is the host runtime for programs. It owns account storage,
// serializes executions, charges payers for the space they allocate and
// keeps the append-only program log.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/blogchain/foundation/blockchain/genesis"
)

// EventHandler defines a function that is called when events
// occur in the processing of executions.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	Storage   Storage
	EvHandler EventHandler
}

// Ledger manages the accounts and the program log.
type Ledger struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	storage   Storage
	evHandler EventHandler
	slot      uint64
}

// New constructs a ledger over the specified storage. When the storage is
// empty the genesis balances are written as slot 0.
func New(cfg Config) (*Ledger, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	slot, err := cfg.Storage.Slot()
	if err != nil {
		return nil, fmt.Errorf("reading slot: %w", err)
	}

	l := Ledger{
		genesis:   cfg.Genesis,
		storage:   cfg.Storage,
		evHandler: ev,
		slot:      slot,
	}

	accounts, err := cfg.Storage.Accounts()
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	if slot == 0 && len(accounts) == 0 {
		if err := l.applyGenesis(); err != nil {
			return nil, err
		}
	}

	ev("ledger: started: slot[%d] accounts[%d]", l.slot, len(accounts))

	return &l, nil
}

// Shutdown releases the storage.
func (l *Ledger) Shutdown() error {
	l.evHandler("ledger: shutdown: started")
	defer l.evHandler("ledger: shutdown: completed")

	return l.storage.Close()
}

// =============================================================================

// Execution describes who is executing, with what nonce and under which
// signature. The instruction name is recorded in the program log.
type Execution struct {
	Signer      Address
	Nonce       uint64
	Signature   string
	Instruction string
}

// Execute runs the function against a private view of the ledger. If the
// function returns an error nothing it did is kept. Otherwise every account
// it changed, the signer's nonce and the log entry are committed together.
// Executions are serialized.
func (l *Ledger) Execute(exe Execution, fn func(ctx *Context) error) (Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := newContext(l, exe.Signer)

	signer, _, err := ctx.load(exe.Signer)
	if err != nil {
		return Receipt{}, err
	}

	if exe.Nonce <= signer.Nonce {
		return Receipt{}, fmt.Errorf("%w: current %d, provided %d", ErrNonce, signer.Nonce, exe.Nonce)
	}

	if err := fn(ctx); err != nil {
		l.evHandler("ledger: execute: signer[%s] instruction[%s]: rejected: %s", exe.Signer, exe.Instruction, err)
		return Receipt{}, err
	}

	// The program may have touched the signer's account, so pick up
	// the latest view before bumping the nonce.
	signer, _, err = ctx.load(exe.Signer)
	if err != nil {
		return Receipt{}, err
	}
	signer.Nonce = exe.Nonce
	ctx.put(signer)

	entry := LogEntry{
		Slot:        l.slot + 1,
		Signature:   exe.Signature,
		Signer:      exe.Signer,
		Instruction: exe.Instruction,
		Accounts:    ctx.touched,
		Messages:    ctx.messages,
		TimeStamp:   uint64(time.Now().UTC().UnixMilli()),
	}

	batch := Batch{
		Slot:     entry.Slot,
		Accounts: ctx.dirtyAccounts(),
		Entry:    &entry,
	}

	if err := l.storage.Commit(batch); err != nil {
		return Receipt{}, fmt.Errorf("commit slot %d: %w", batch.Slot, err)
	}
	l.slot = batch.Slot

	for _, msg := range entry.Messages {
		l.evHandler("ledger: slot[%d]: signature[%s]: Program log: %s", entry.Slot, entry.Signature, msg)
	}

	receipt := Receipt{
		Slot:      entry.Slot,
		Signature: entry.Signature,
		Logs:      entry.Messages,
	}

	return receipt, nil
}

// =============================================================================

// Genesis returns a copy of the genesis information.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// Slot returns the slot of the last committed execution.
func (l *Ledger) Slot() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.slot
}

// Rent returns the cost of reserving the specified number of bytes.
func (l *Ledger) Rent(space int) uint64 {
	return uint64(space) * l.genesis.RentPerByte
}

// Account returns the account stored at the address. Read access is open
// to anyone.
func (l *Ledger) Account(address Address) (Account, error) {
	return l.storage.Account(address)
}

// Accounts returns every account on the ledger ordered by address.
func (l *Ledger) Accounts() ([]Account, error) {
	accounts, err := l.storage.Accounts()
	if err != nil {
		return nil, err
	}

	SortAccounts(accounts)
	return accounts, nil
}

// Balance returns the balance for the address. An unknown address
// has a zero balance.
func (l *Ledger) Balance(address Address) (uint64, error) {
	account, err := l.storage.Account(address)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return 0, nil
	case err != nil:
		return 0, err
	}

	return account.Balance, nil
}

// Nonce returns the last nonce used by the address.
func (l *Ledger) Nonce(address Address) (uint64, error) {
	account, err := l.storage.Account(address)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return 0, nil
	case err != nil:
		return 0, err
	}

	return account.Nonce, nil
}

// Logs returns the log entries of executions that touched the address,
// newest first. A limit of zero or less returns all of them.
func (l *Ledger) Logs(address Address, limit int) ([]LogEntry, error) {
	return l.storage.Logs(address, limit)
}

// =============================================================================

// applyGenesis writes the genesis balances to storage as slot 0.
func (l *Ledger) applyGenesis() error {
	accounts := make([]Account, 0, len(l.genesis.Balances))
	for hex, balance := range l.genesis.Balances {
		address, err := ToAddress(hex)
		if err != nil {
			return fmt.Errorf("genesis balance %q: %w", hex, err)
		}
		accounts = append(accounts, Account{Address: address, Balance: balance})
	}
	SortAccounts(accounts)

	if err := l.storage.Commit(Batch{Slot: 0, Accounts: accounts}); err != nil {
		return fmt.Errorf("writing genesis: %w", err)
	}

	l.evHandler("ledger: genesis: chain[%d] balances[%d]", l.genesis.ChainID, len(accounts))

	return nil
}
