package ledger

import (
	"errors"
	"fmt"
)

// Payer is the capability to fund account allocation. The ledger only
// hands one out for the signer of the running execution.
type Payer struct {
	address Address
	ctx     *Context
}

// Address returns the address that pays.
func (p Payer) Address() Address {
	return p.address
}

// =============================================================================

// Context is a program's view of the ledger during a single execution.
// Changes are held here and only reach storage when the execution commits.
type Context struct {
	ledger   *Ledger
	signer   Address
	accounts map[Address]Account
	dirty    map[Address]bool
	touched  []Address
	messages []string
}

func newContext(l *Ledger, signer Address) *Context {
	ctx := Context{
		ledger:   l,
		signer:   signer,
		accounts: make(map[Address]Account),
		dirty:    make(map[Address]bool),
	}
	ctx.touch(signer)

	return &ctx
}

// Signer returns the verified address that signed the execution.
func (ctx *Context) Signer() Address {
	return ctx.signer
}

// Payer returns the funding capability of the signer.
func (ctx *Context) Payer() Payer {
	return Payer{address: ctx.signer, ctx: ctx}
}

// Create reserves space bytes at the address for the owner program. The
// payer is charged the rent for the space, which is moved into the new
// account. An address can only be created once.
func (ctx *Context) Create(address Address, payer Payer, owner string, space int) error {
	if payer.ctx != ctx {
		return ErrPayer
	}

	if space < 0 {
		return fmt.Errorf("%w: negative space %d", ErrCapacity, space)
	}

	account, _, err := ctx.load(address)
	if err != nil {
		return err
	}

	if account.Allocated() {
		return fmt.Errorf("%w: %s", ErrAccountInUse, address)
	}

	from, _, err := ctx.load(payer.address)
	if err != nil {
		return err
	}

	rent := ctx.ledger.Rent(space)
	if from.Balance < rent {
		return fmt.Errorf("%w: balance %d, rent %d", ErrInsufficientFunds, from.Balance, rent)
	}

	from.Balance -= rent
	ctx.put(from)

	// Reload in case the payer and the new account are the same address.
	account, _, err = ctx.load(address)
	if err != nil {
		return err
	}

	account.Owner = owner
	account.Space = space
	account.Balance += rent
	account.Data = nil
	ctx.put(account)

	return nil
}

// Transfer moves value from the payer's balance to the address. The
// address does not need to exist yet.
func (ctx *Context) Transfer(payer Payer, to Address, value uint64) error {
	if payer.ctx != ctx {
		return ErrPayer
	}

	if value == 0 {
		return ErrZeroValue
	}

	from, _, err := ctx.load(payer.address)
	if err != nil {
		return err
	}

	if from.Balance < value {
		return fmt.Errorf("%w: balance %d, value %d", ErrInsufficientFunds, from.Balance, value)
	}

	from.Balance -= value
	ctx.put(from)

	// Reload in case the payer sends to itself.
	account, _, err := ctx.load(to)
	if err != nil {
		return err
	}

	account.Balance += value
	ctx.put(account)

	return nil
}

// Load returns a copy of the data held by the account for the owner program.
func (ctx *Context) Load(address Address, owner string) ([]byte, error) {
	account, err := ctx.owned(address, owner)
	if err != nil {
		return nil, err
	}

	return account.clone().Data, nil
}

// Store overwrites the data held by the account. The data must fit in the
// space reserved when the account was created.
func (ctx *Context) Store(address Address, owner string, data []byte) error {
	account, err := ctx.owned(address, owner)
	if err != nil {
		return err
	}

	if len(data) > account.Space {
		return fmt.Errorf("%w: %d bytes, space %d", ErrCapacity, len(data), account.Space)
	}

	account.Data = make([]byte, len(data))
	copy(account.Data, data)
	ctx.put(account)

	return nil
}

// Log appends a message to the program log of this execution.
func (ctx *Context) Log(msg string) {
	ctx.messages = append(ctx.messages, msg)
}

// =============================================================================

// owned returns the account if it has been allocated to the owner.
func (ctx *Context) owned(address Address, owner string) (Account, error) {
	account, found, err := ctx.load(address)
	if err != nil {
		return Account{}, err
	}

	if !found || !account.Allocated() {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}

	if account.Owner != owner {
		return Account{}, fmt.Errorf("%w: %s", ErrOwner, address)
	}

	return account, nil
}

// load returns the account from this execution's view, falling back to
// storage. An unknown address returns an empty account and false.
func (ctx *Context) load(address Address) (Account, bool, error) {
	ctx.touch(address)

	if account, exists := ctx.accounts[address]; exists {
		return account.clone(), true, nil
	}

	account, err := ctx.ledger.storage.Account(address)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return Account{Address: address}, false, nil
	case err != nil:
		return Account{}, false, err
	}

	ctx.accounts[address] = account
	return account.clone(), true, nil
}

// put records the account as changed by this execution.
func (ctx *Context) put(account Account) {
	ctx.touch(account.Address)
	ctx.accounts[account.Address] = account
	ctx.dirty[account.Address] = true
}

// touch remembers the address so the log entry can be found by it.
func (ctx *Context) touch(address Address) {
	for _, a := range ctx.touched {
		if a == address {
			return
		}
	}
	ctx.touched = append(ctx.touched, address)
}

// dirtyAccounts returns the accounts changed by this execution.
func (ctx *Context) dirtyAccounts() []Account {
	accounts := make([]Account, 0, len(ctx.dirty))
	for address := range ctx.dirty {
		accounts = append(accounts, ctx.accounts[address])
	}
	SortAccounts(accounts)

	return accounts
}
