package signature_test

import (
	"testing"

	"github.com/ardanlabs/blogchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

type post struct {
	Text string
}

// =============================================================================

func Test_Signing(t *testing.T) {
	t.Log("Given the need to sign data and recover the signer.")
	{
		pk, err := crypto.HexToECDSA(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the private key.", success)

		value := post{Text: "gm"}

		v, r, s, err := signature.Sign(value, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		if err := signature.VerifySignature(v, r, s); err != nil {
			t.Fatalf("\t%s\tShould be able to verify the signature: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		addr, err := signature.FromAddress(value, v, r, s)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to recover the address: %s", failed, err)
		}

		if addr != from {
			t.Logf("\t\tgot: %s", addr)
			t.Logf("\t\texp: %s", from)
			t.Fatalf("\t%s\tShould get back the signer's address.", failed)
		}
		t.Logf("\t%s\tShould get back the signer's address.", success)

		tampered, err := signature.FromAddress(post{Text: "gn"}, v, r, s)
		if err == nil && tampered == from {
			t.Fatalf("\t%s\tShould not recover the signer for different data.", failed)
		}
		t.Logf("\t%s\tShould not recover the signer for different data.", success)
	}
}

func Test_SignatureString(t *testing.T) {
	t.Log("Given the need to move signatures around as hex strings.")
	{
		pk, err := crypto.HexToECDSA(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
		}

		value := post{Text: "hello"}
		v, r, s, err := signature.Sign(value, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}

		str := signature.SignatureString(v, r, s)
		if len(str) != 2+2*crypto.SignatureLength {
			t.Fatalf("\t%s\tShould produce a 65 byte hex signature, got %d chars.", failed, len(str))
		}
		t.Logf("\t%s\tShould produce a 65 byte hex signature.", success)

		v2, r2, s2, err := signature.ToVRSFromHexSignature(str)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse the hex signature: %s", failed, err)
		}

		if v.Cmp(v2) != 0 || r.Cmp(r2) != 0 || s.Cmp(s2) != 0 {
			t.Fatalf("\t%s\tShould get back the same signature values.", failed)
		}
		t.Logf("\t%s\tShould get back the same signature values.", success)

		if _, _, _, err := signature.ToVRSFromHexSignature("0x1234"); err == nil {
			t.Fatalf("\t%s\tShould reject a short signature.", failed)
		}
		t.Logf("\t%s\tShould reject a short signature.", success)
	}
}

func Test_SignConsistency(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v1, r1, s1, err := signature.Sign(post{Text: "first"}, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	addr1, err := signature.FromAddress(post{Text: "first"}, v1, r1, s1)
	if err != nil {
		t.Fatalf("Should be able to generate an address: %s", err)
	}

	v2, r2, s2, err := signature.Sign(post{Text: "second"}, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	addr2, err := signature.FromAddress(post{Text: "second"}, v2, r2, s2)
	if err != nil {
		t.Fatalf("Should be able to generate an address: %s", err)
	}

	if addr1 != addr2 {
		t.Errorf("Got: %s", addr1)
		t.Errorf("Got: %s", addr2)
		t.Fatalf("Should have the same address.")
	}
}
