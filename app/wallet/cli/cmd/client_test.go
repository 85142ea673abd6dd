package cmd

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/blogchain/app/services/node/handlers"
	"github.com/ardanlabs/blogchain/business/core/program"
	"github.com/ardanlabs/blogchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger/storage/memory"
	"github.com/ardanlabs/blogchain/foundation/events"
	"github.com/ardanlabs/blogchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestClient(t *testing.T) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
	}
	address := ledger.PublicKeyToAddress(pk.PublicKey)

	strg, _ := memory.New()
	ldg, err := ledger.New(ledger.Config{
		Genesis: genesis.Genesis{ChainID: 7, RentPerByte: 1, Balances: map[string]uint64{string(address): 5000}},
		Storage: strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %s", failed, err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the name service: %s", failed, err)
	}

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		Program:  program.New(ldg),
		NS:       ns,
		Evts:     events.New(),
	}))
	defer srv.Close()

	c := newClient(srv.URL)

	t.Log("Given the need to drive a node from the wallet.")
	{
		if _, err := c.submit(pk, instruction.KindInitialize, "", []byte("bio")); err != nil {
			t.Fatalf("\t%s\tShould be able to initialize: %s", failed, err)
		}
		if _, err := c.submit(pk, instruction.KindUpdatePost, "", []byte("first")); err != nil {
			t.Fatalf("\t%s\tShould be able to post: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to submit with nonces fetched from the node.", success)

		rec, err := c.recordOf(string(address))
		if err != nil || rec.LatestPost != "first" || rec.Bio != "bio" {
			t.Fatalf("\t%s\tShould read the record back: %v %+v", failed, err, rec)
		}
		t.Logf("\t%s\tShould read the record back.", success)

		entries, err := c.history(string(rec.Address), 1)
		if err != nil || len(entries) != 1 || entries[0].Text != "first" {
			t.Fatalf("\t%s\tShould read a limited history: %v %+v", failed, err, entries)
		}
		t.Logf("\t%s\tShould read a limited history.", success)

		_, err = c.submit(pk, instruction.KindInitialize, "", nil)
		if err == nil {
			t.Fatalf("\t%s\tShould surface the node error.", failed)
		}
		t.Logf("\t%s\tShould surface the node error: %s", success, err)

		acct, err := c.account(address)
		if err != nil || acct.Nonce != 2 {
			t.Fatalf("\t%s\tShould not use a nonce for the failed write: %v %+v", failed, err, acct)
		}
		t.Logf("\t%s\tShould not use a nonce for the failed write.", success)

		if _, err := c.recordOf("0x0000000000000000000000000000000000000001"); err == nil {
			t.Fatalf("\t%s\tShould fail for an authority without a record.", failed)
		}
		t.Logf("\t%s\tShould fail for an authority without a record.", success)

		fresh, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
		}
		freshAddress := ledger.PublicKeyToAddress(fresh.PublicKey)

		if _, err := c.transfer(pk, freshAddress, 1000); err != nil {
			t.Fatalf("\t%s\tShould be able to send value to a fresh wallet: %s", failed, err)
		}
		if _, err := c.submit(fresh, instruction.KindInitialize, "", []byte("funded")); err != nil {
			t.Fatalf("\t%s\tShould let the funded wallet initialize: %s", failed, err)
		}
		t.Logf("\t%s\tShould let a funded wallet initialize.", success)

		if _, err := c.transfer(pk, freshAddress, 0); err == nil {
			t.Fatalf("\t%s\tShould refuse a zero value transfer.", failed)
		}
		t.Logf("\t%s\tShould refuse a zero value transfer.", success)
	}
}

func TestCheckReceipt(t *testing.T) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
	}
	signer := ledger.PublicKeyToAddress(pk.PublicKey)

	inst, err := instruction.New(1, 1, instruction.KindUpdatePost, "", []byte("hello"))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to build the instruction: %s", failed, err)
	}
	signed, err := inst.Sign(pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the instruction: %s", failed, err)
	}

	t.Log("Given the need to trust the receipt returned by the node.")
	{
		rcpt := receipt{Signature: signed.SignatureString()}
		if err := checkReceipt(rcpt, inst, signer); err != nil {
			t.Fatalf("\t%s\tShould accept the signature of the instruction sent: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept the signature of the instruction sent.", success)

		other := inst
		other.Data = []byte("something else")
		if err := checkReceipt(rcpt, other, signer); err == nil {
			t.Fatalf("\t%s\tShould reject a signature for a different instruction.", failed)
		}
		t.Logf("\t%s\tShould reject a signature for a different instruction.", success)

		if err := checkReceipt(receipt{Signature: "0x1234"}, inst, signer); err == nil {
			t.Fatalf("\t%s\tShould reject a malformed signature.", failed)
		}
		t.Logf("\t%s\tShould reject a malformed signature.", success)
	}
}
