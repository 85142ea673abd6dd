// Package program binds the blog rules to the ledger. It checks the
// signature on an instruction, works out who the caller is and runs the
// matching blog operation or transfer inside a ledger execution.
package program

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// Set of error variables for instruction handling.
var (
	ErrSignature     = errors.New("invalid signature")
	ErrChainID       = errors.New("wrong chain id")
	ErrAccount       = errors.New("invalid account")
	ErrRecordAddress = errors.New("record address does not belong to the signer")
)

// Program provides the blog API over the ledger.
type Program struct {
	ledger *ledger.Ledger
}

// New constructs a program over the ledger.
func New(l *ledger.Ledger) *Program {
	return &Program{
		ledger: l,
	}
}

// Submit verifies and runs the signed instruction.
func (p *Program) Submit(si instruction.SignedInstruction) (ledger.Receipt, error) {
	if err := si.VerifySignature(); err != nil {
		return ledger.Receipt{}, fmt.Errorf("%w: %s", ErrSignature, err)
	}

	caller, err := si.FromAddress()
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("%w: %s", ErrSignature, err)
	}

	if gen := p.ledger.Genesis(); si.ChainID != gen.ChainID {
		return ledger.Receipt{}, fmt.Errorf("%w: got %d, exp %d", ErrChainID, si.ChainID, gen.ChainID)
	}

	var target ledger.Address
	if si.Account != "" {
		if target, err = ledger.ToAddress(si.Account); err != nil {
			return ledger.Receipt{}, fmt.Errorf("%w: %s", ErrAccount, err)
		}
	}

	record := blog.RecordAddress(caller)

	var fn func(ctx *ledger.Context) error
	switch si.Kind {
	case instruction.KindInitialize:

		// A record can only be created at the caller's own record address.
		if target != "" && target != record {
			return ledger.Receipt{}, fmt.Errorf("%w: got %s, exp %s", ErrRecordAddress, target, record)
		}

		fn = func(ctx *ledger.Context) error {
			_, err := blog.Initialize(ctx, ctx.Signer(), ctx.Payer(), si.Data)
			return err
		}

	case instruction.KindUpdatePost, instruction.KindUpdateBio:
		if target != "" {
			record = target
		}

		update := blog.UpdatePost
		if si.Kind == instruction.KindUpdateBio {
			update = blog.UpdateBio
		}

		fn = func(ctx *ledger.Context) error {
			return update(ctx, ctx.Signer(), record, si.Data)
		}

	case instruction.KindTransfer:
		if target == "" {
			return ledger.Receipt{}, fmt.Errorf("%w: transfer needs a receiver", ErrAccount)
		}

		fn = func(ctx *ledger.Context) error {
			if err := ctx.Transfer(ctx.Payer(), target, si.Value); err != nil {
				return err
			}
			ctx.Log(fmt.Sprintf("transfer %d to %s", si.Value, target))
			return nil
		}

	default:
		return ledger.Receipt{}, fmt.Errorf("unknown instruction kind %q", si.Kind)
	}

	exe := ledger.Execution{
		Signer:      caller,
		Nonce:       si.Nonce,
		Signature:   si.SignatureString(),
		Instruction: string(si.Kind),
	}

	return p.ledger.Execute(exe, fn)
}

// =============================================================================

// Genesis returns the genesis information.
func (p *Program) Genesis() genesis.Genesis {
	return p.ledger.Genesis()
}

// Record returns the blog record stored at the address.
func (p *Program) Record(address ledger.Address) (blog.Record, error) {
	account, err := p.ledger.Account(address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return blog.Record{}, fmt.Errorf("%w: %s", blog.ErrNotInitialized, address)
		}
		return blog.Record{}, err
	}

	if account.Owner != blog.ProgramID {
		return blog.Record{}, fmt.Errorf("%w: %s", blog.ErrNotInitialized, address)
	}

	return blog.Decode(account.Data)
}

// RecordOf returns the address and record created by the authority.
func (p *Program) RecordOf(authority ledger.Address) (ledger.Address, blog.Record, error) {
	address := blog.RecordAddress(authority)

	rec, err := p.Record(address)
	if err != nil {
		return "", blog.Record{}, err
	}

	return address, rec, nil
}

// History returns past writes to the record, newest first.
func (p *Program) History(record ledger.Address, limit int) ([]blog.Entry, error) {
	return blog.History(p.ledger, record, limit)
}

// Account returns the ledger account at the address.
func (p *Program) Account(address ledger.Address) (ledger.Account, error) {
	return p.ledger.Account(address)
}

// Balance returns the balance of the address.
func (p *Program) Balance(address ledger.Address) (uint64, error) {
	return p.ledger.Balance(address)
}

// Nonce returns the last nonce used by the address.
func (p *Program) Nonce(address ledger.Address) (uint64, error) {
	return p.ledger.Nonce(address)
}

// Slot returns the slot of the last committed execution.
func (p *Program) Slot() uint64 {
	return p.ledger.Slot()
}

// Rent returns the amount a payer is charged to initialize a record.
func (p *Program) Rent() uint64 {
	return p.ledger.Rent(blog.Space)
}
