package commands_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardanlabs/blogchain/app/tooling/admin/commands"
	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCommands(t *testing.T) {
	author := ledger.DeriveAddress([]byte("author"))

	strg, _ := memory.New()
	l, err := ledger.New(ledger.Config{
		Genesis: genesis.Genesis{ChainID: 1, RentPerByte: 1, Balances: map[string]uint64{string(author): 2000}},
		Storage: strg,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %s", failed, err)
	}

	exe := ledger.Execution{Signer: author, Nonce: 1, Signature: "sig", Instruction: "initialize"}
	_, err = l.Execute(exe, func(ctx *ledger.Context) error {
		_, err := blog.Initialize(ctx, ctx.Signer(), ctx.Payer(), []byte("admin bio"))
		return err
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to initialize a record: %s", failed, err)
	}

	t.Log("Given the need to inspect a ledger offline.")
	{
		var buf bytes.Buffer

		if err := commands.Accounts(&buf, strg); err != nil || !strings.Contains(buf.String(), "Owner: blog") {
			t.Fatalf("\t%s\tShould list the record account: %v\n%s", failed, err, buf.String())
		}
		t.Logf("\t%s\tShould list the record account.", success)

		buf.Reset()
		if err := commands.Records(&buf, strg); err != nil || !strings.Contains(buf.String(), "Bio:  admin bio") {
			t.Fatalf("\t%s\tShould decode the record: %v\n%s", failed, err, buf.String())
		}
		t.Logf("\t%s\tShould decode the record.", success)

		buf.Reset()
		if err := commands.Logs(&buf, strg, string(blog.RecordAddress(author))); err != nil || !strings.Contains(buf.String(), "Program log: admin bio") {
			t.Fatalf("\t%s\tShould print the program log: %v\n%s", failed, err, buf.String())
		}
		t.Logf("\t%s\tShould print the program log.", success)

		if err := commands.Logs(&buf, strg, "nope"); err == nil {
			t.Fatalf("\t%s\tShould reject a bad address.", failed)
		}
		t.Logf("\t%s\tShould reject a bad address.", success)
	}
}
