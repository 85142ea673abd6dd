package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestNameService(t *testing.T) {
	t.Log("Given the need to name the accounts in a key folder.")
	{
		dir := t.TempDir()

		pk, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a key: %s", failed, err)
		}
		if err := crypto.SaveECDSA(filepath.Join(dir, "jill.ecdsa"), pk); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %s", failed, err)
		}

		ns, err := nameservice.New(dir)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the folder: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the folder.", success)

		address := ledger.PublicKeyToAddress(pk.PublicKey)

		if name := ns.Lookup(address); name != "jill" {
			t.Fatalf("\t%s\tShould name the address jill, got %q.", failed, name)
		}
		t.Logf("\t%s\tShould name the address jill.", success)

		got, err := ns.Resolve("jill")
		if err != nil || got != address {
			t.Fatalf("\t%s\tShould resolve jill to the address: %v %s", failed, err, got)
		}
		t.Logf("\t%s\tShould resolve a name to the address.", success)

		unknown := ledger.DeriveAddress([]byte("unknown"))
		if ns.Lookup(unknown) != string(unknown) {
			t.Fatalf("\t%s\tShould return the address for an unknown account.", failed)
		}
		t.Logf("\t%s\tShould return the address for an unknown account.", success)

		if _, err := ns.Resolve("nobody"); err == nil {
			t.Fatalf("\t%s\tShould fail to resolve an unknown name.", failed)
		}
		t.Logf("\t%s\tShould fail to resolve an unknown name.", success)
	}
}
