package ledger_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/blogchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger/storage/boltdb"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const owner = "notes"

var (
	alice = ledger.DeriveAddress([]byte("alice"))
	bob   = ledger.DeriveAddress([]byte("bob"))
)

type storageFactory struct {
	name string
	new  func(t *testing.T) ledger.Storage
}

var storages = []storageFactory{
	{
		name: "memory",
		new: func(t *testing.T) ledger.Storage {
			strg, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct memory storage: %s", failed, err)
			}
			return strg
		},
	},
	{
		name: "bolt",
		new: func(t *testing.T) ledger.Storage {
			strg, err := boltdb.New(filepath.Join(t.TempDir(), "ledger.db"))
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct bolt storage: %s", failed, err)
			}
			return strg
		},
	},
}

func newLedger(t *testing.T, strg ledger.Storage) *ledger.Ledger {
	gen := genesis.Genesis{
		ChainID:     1,
		RentPerByte: 10,
		Balances: map[string]uint64{
			string(alice): 1000,
		},
	}

	l, err := ledger.New(ledger.Config{Genesis: gen, Storage: strg})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %s", failed, err)
	}
	t.Cleanup(func() { l.Shutdown() })

	return l
}

func exe(signer ledger.Address, nonce uint64) ledger.Execution {
	return ledger.Execution{
		Signer:      signer,
		Nonce:       nonce,
		Signature:   "sig",
		Instruction: "write",
	}
}

// =============================================================================

func TestExecute(t *testing.T) {
	for _, sf := range storages {
		t.Run(sf.name, func(t *testing.T) {
			testCreate(t, sf)
			testRollback(t, sf)
			testNonce(t, sf)
			testCapacity(t, sf)
			testTransfer(t, sf)
		})
	}
}

func testCreate(t *testing.T, sf storageFactory) {
	t.Log("Given the need to allocate program storage.")
	{
		t.Logf("\tTest 0:\tWhen alice creates and writes an account.")
		{
			l := newLedger(t, sf.new(t))
			target := ledger.DeriveAddress([]byte("alice"), []byte("notes"))

			receipt, err := l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
				if err := ctx.Create(target, ctx.Payer(), owner, 20); err != nil {
					return err
				}
				ctx.Log("created")
				return ctx.Store(target, owner, []byte("hello"))
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to execute: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to execute.", success)

			if receipt.Slot != 1 || len(receipt.Logs) != 1 || receipt.Logs[0] != "created" {
				t.Fatalf("\t%s\tTest 0:\tShould get a receipt for slot 1 with the log, got %+v.", failed, receipt)
			}
			t.Logf("\t%s\tTest 0:\tShould get a receipt for slot 1 with the log.", success)

			account, err := l.Account(target)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the account: %s", failed, err)
			}
			if account.Owner != owner || account.Space != 20 || string(account.Data) != "hello" || account.Balance != 200 {
				t.Fatalf("\t%s\tTest 0:\tShould hold the data and the rent, got %+v.", failed, account)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the data and the rent.", success)

			if bal, _ := l.Balance(alice); bal != 800 {
				t.Fatalf("\t%s\tTest 0:\tShould charge alice 200, balance %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould charge alice the rent.", success)

			if nonce, _ := l.Nonce(alice); nonce != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould advance the nonce to 1, got %d.", failed, nonce)
			}
			t.Logf("\t%s\tTest 0:\tShould advance the nonce.", success)

			logs, err := l.Logs(target, 0)
			if err != nil || len(logs) != 1 || logs[0].Signer != alice || logs[0].Slot != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould index the log entry by the account: %v %+v", failed, err, logs)
			}
			t.Logf("\t%s\tTest 0:\tShould index the log entry by the account.", success)

			_, err = l.Execute(exe(alice, 2), func(ctx *ledger.Context) error {
				return ctx.Create(target, ctx.Payer(), owner, 20)
			})
			if !errors.Is(err, ledger.ErrAccountInUse) {
				t.Fatalf("\t%s\tTest 0:\tShould not create the account twice, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not create the account twice.", success)
		}

		t.Logf("\tTest 1:\tWhen bob has no funds.")
		{
			l := newLedger(t, sf.new(t))
			target := ledger.DeriveAddress([]byte("bob"))

			_, err := l.Execute(exe(bob, 1), func(ctx *ledger.Context) error {
				return ctx.Create(target, ctx.Payer(), owner, 1)
			})
			if !errors.Is(err, ledger.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 1:\tShould fail with insufficient funds, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould fail with insufficient funds.", success)

			if _, err := l.Account(target); !errors.Is(err, ledger.ErrAccountNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould not allocate the account, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould not allocate the account.", success)
		}
	}
}

func testRollback(t *testing.T, sf storageFactory) {
	t.Log("Given the need to discard a failed execution.")
	{
		l := newLedger(t, sf.new(t))
		target := ledger.DeriveAddress([]byte("rollback"))
		boom := errors.New("boom")

		_, err := l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
			if err := ctx.Create(target, ctx.Payer(), owner, 10); err != nil {
				return err
			}
			ctx.Log("never seen")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("\t%s\tShould return the program error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould return the program error.", success)

		if _, err := l.Account(target); !errors.Is(err, ledger.ErrAccountNotFound) {
			t.Fatalf("\t%s\tShould not keep the created account, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould not keep the created account.", success)

		if bal, _ := l.Balance(alice); bal != 1000 {
			t.Fatalf("\t%s\tShould not charge alice, balance %d.", failed, bal)
		}
		t.Logf("\t%s\tShould not charge alice.", success)

		if nonce, _ := l.Nonce(alice); nonce != 0 || l.Slot() != 0 {
			t.Fatalf("\t%s\tShould not advance the nonce or slot.", failed)
		}
		t.Logf("\t%s\tShould not advance the nonce or slot.", success)

		if logs, _ := l.Logs(alice, 0); len(logs) != 0 {
			t.Fatalf("\t%s\tShould not log anything, got %+v.", failed, logs)
		}
		t.Logf("\t%s\tShould not log anything.", success)
	}
}

func testNonce(t *testing.T, sf storageFactory) {
	t.Log("Given the need to reject replayed executions.")
	{
		l := newLedger(t, sf.new(t))
		noop := func(ctx *ledger.Context) error { return nil }

		if _, err := l.Execute(exe(alice, 5), noop); err != nil {
			t.Fatalf("\t%s\tShould accept a higher nonce: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept a higher nonce.", success)

		for _, nonce := range []uint64{5, 4} {
			if _, err := l.Execute(exe(alice, nonce), noop); !errors.Is(err, ledger.ErrNonce) {
				t.Fatalf("\t%s\tShould reject nonce %d, got %v.", failed, nonce, err)
			}
		}
		t.Logf("\t%s\tShould reject used nonces.", success)

		if _, err := l.Execute(exe(alice, 6), noop); err != nil {
			t.Fatalf("\t%s\tShould accept the next nonce: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept the next nonce.", success)

		if l.Slot() != 2 {
			t.Fatalf("\t%s\tShould be at slot 2, got %d.", failed, l.Slot())
		}
		t.Logf("\t%s\tShould be at slot 2.", success)
	}
}

func testCapacity(t *testing.T, sf storageFactory) {
	t.Log("Given the need to keep data inside the reserved space.")
	{
		l := newLedger(t, sf.new(t))
		target := ledger.DeriveAddress([]byte("small"))

		_, err := l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
			return ctx.Create(target, ctx.Payer(), owner, 4)
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the account: %s", failed, err)
		}

		_, err = l.Execute(exe(alice, 2), func(ctx *ledger.Context) error {
			return ctx.Store(target, owner, []byte("too long"))
		})
		if !errors.Is(err, ledger.ErrCapacity) {
			t.Fatalf("\t%s\tShould fail with capacity, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould fail with capacity.", success)

		_, err = l.Execute(exe(alice, 2), func(ctx *ledger.Context) error {
			return ctx.Store(target, "other", []byte("ok"))
		})
		if !errors.Is(err, ledger.ErrOwner) {
			t.Fatalf("\t%s\tShould fail for a different owner, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould fail for a different owner.", success)
	}
}

func testTransfer(t *testing.T, sf storageFactory) {
	t.Log("Given the need to fund a new address.")
	{
		t.Logf("\tTest 0:\tWhen alice sends value to bob.")
		{
			l := newLedger(t, sf.new(t))

			_, err := l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
				return ctx.Transfer(ctx.Payer(), bob, 300)
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to transfer: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to transfer.", success)

			aliceBal, _ := l.Balance(alice)
			bobBal, _ := l.Balance(bob)
			if aliceBal != 700 || bobBal != 300 {
				t.Fatalf("\t%s\tTest 0:\tShould move the value, alice %d bob %d.", failed, aliceBal, bobBal)
			}
			t.Logf("\t%s\tTest 0:\tShould move the value.", success)

			if logs, _ := l.Logs(bob, 0); len(logs) != 1 || logs[0].Signer != alice {
				t.Fatalf("\t%s\tTest 0:\tShould index the log entry by the receiver: %+v", failed, logs)
			}
			t.Logf("\t%s\tTest 0:\tShould index the log entry by the receiver.", success)

			_, err = l.Execute(exe(alice, 2), func(ctx *ledger.Context) error {
				return ctx.Transfer(ctx.Payer(), alice, 100)
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to send to itself: %s", failed, err)
			}
			if bal, _ := l.Balance(alice); bal != 700 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the balance when sending to itself, got %d.", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the balance when sending to itself.", success)
		}

		t.Logf("\tTest 1:\tWhen the transfer can't be made.")
		{
			l := newLedger(t, sf.new(t))

			_, err := l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
				return ctx.Transfer(ctx.Payer(), bob, 1001)
			})
			if !errors.Is(err, ledger.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest 1:\tShould fail with insufficient funds, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould fail with insufficient funds.", success)

			_, err = l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
				return ctx.Transfer(ctx.Payer(), bob, 0)
			})
			if !errors.Is(err, ledger.ErrZeroValue) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a zero value, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a zero value.", success)

			var stolen ledger.Payer
			_, err = l.Execute(exe(bob, 1), func(ctx *ledger.Context) error {
				stolen = ctx.Payer()
				return nil
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to execute for bob: %s", failed, err)
			}

			_, err = l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
				return ctx.Transfer(stolen, alice, 1)
			})
			if !errors.Is(err, ledger.ErrPayer) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a payer from another execution, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a payer from another execution.", success)

			aliceBal, _ := l.Balance(alice)
			bobBal, _ := l.Balance(bob)
			if aliceBal != 1000 || bobBal != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the balances alone, alice %d bob %d.", failed, aliceBal, bobBal)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the balances alone.", success)
		}
	}
}

// =============================================================================

func TestReopen(t *testing.T) {
	t.Log("Given the need to keep the ledger across restarts.")
	{
		path := filepath.Join(t.TempDir(), "ledger.db")
		target := ledger.DeriveAddress([]byte("durable"))

		strg, err := boltdb.New(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open the database: %s", failed, err)
		}

		l := newLedger(t, strg)
		_, err = l.Execute(exe(alice, 1), func(ctx *ledger.Context) error {
			if err := ctx.Create(target, ctx.Payer(), owner, 8); err != nil {
				return err
			}
			return ctx.Store(target, owner, []byte("kept"))
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to execute: %s", failed, err)
		}
		l.Shutdown()

		strg, err = boltdb.New(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to reopen the database: %s", failed, err)
		}

		l = newLedger(t, strg)

		if l.Slot() != 1 {
			t.Fatalf("\t%s\tShould resume at slot 1, got %d.", failed, l.Slot())
		}
		t.Logf("\t%s\tShould resume at slot 1.", success)

		account, err := l.Account(target)
		if err != nil || string(account.Data) != "kept" {
			t.Fatalf("\t%s\tShould read back the account: %v %+v", failed, err, account)
		}
		t.Logf("\t%s\tShould read back the account.", success)

		if bal, _ := l.Balance(alice); bal != 920 {
			t.Fatalf("\t%s\tShould not apply genesis twice, balance %d.", failed, bal)
		}
		t.Logf("\t%s\tShould not apply genesis twice.", success)
	}
}
