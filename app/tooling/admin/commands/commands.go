// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Storage is the read side of the ledger storage the commands inspect.
type Storage interface {
	Accounts() ([]ledger.Account, error)
	Logs(address ledger.Address, limit int) ([]ledger.LogEntry, error)
	Slot() (uint64, error)
}

// Accounts prints every account with its balance and nonce.
func Accounts(w io.Writer, strg Storage) error {
	slot, err := strg.Slot()
	if err != nil {
		return err
	}

	accounts, err := strg.Accounts()
	if err != nil {
		return err
	}
	ledger.SortAccounts(accounts)

	fmt.Fprintf(w, "Slot: %d\n\n", slot)
	for _, a := range accounts {
		owner := a.Owner
		if owner == "" {
			owner = "-"
		}
		fmt.Fprintf(w, "Account: %s  Owner: %-5s  Balance: %d  Nonce: %d  Space: %d\n", a.Address, owner, a.Balance, a.Nonce, a.Space)
	}

	return nil
}

// Logs prints the program log for the address, newest first.
func Logs(w io.Writer, strg Storage, address string) error {
	addr, err := ledger.ToAddress(address)
	if err != nil {
		return fmt.Errorf("address %q: %w", address, err)
	}

	entries, err := strg.Logs(addr, 0)
	if err != nil {
		return err
	}

	for _, e := range entries {
		ts := time.UnixMilli(int64(e.TimeStamp)).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "Slot: %d  Time: %s  Signer: %s  Instruction: %s\n", e.Slot, ts, e.Signer, e.Instruction)
		for _, msg := range e.Messages {
			fmt.Fprintf(w, "    Program log: %s\n", msg)
		}
	}

	return nil
}

// Records decodes and prints every blog record on the ledger.
func Records(w io.Writer, strg Storage) error {
	accounts, err := strg.Accounts()
	if err != nil {
		return err
	}
	ledger.SortAccounts(accounts)

	for _, a := range accounts {
		if a.Owner != blog.ProgramID {
			continue
		}

		rec, err := blog.Decode(a.Data)
		if err != nil {
			fmt.Fprintf(w, "Record: %s  ERROR: %s\n", a.Address, err)
			continue
		}

		fmt.Fprintf(w, "Record: %s  Authority: %s\n", a.Address, rec.Authority)
		fmt.Fprintf(w, "    Bio:  %s\n", strings.TrimSpace(string(rec.Bio)))
		fmt.Fprintf(w, "    Post: %s\n", strings.TrimSpace(string(rec.LatestPost)))
	}

	return nil
}
