package ledger

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address represents an account address on the ledger. It is the identity
// used to sign instructions and the key used to locate account storage.
type Address string

// ToAddress converts a hex-encoded string to an address, validating the
// format and normalizing it to the checksummed form.
func ToAddress(hex string) (Address, error) {
	a := Address(hex)
	if !a.IsAddress() {
		return "", errors.New("invalid address format")
	}

	return Address(common.HexToAddress(hex).Hex()), nil
}

// PublicKeyToAddress converts the public key to an address value.
func PublicKeyToAddress(pk ecdsa.PublicKey) Address {
	return Address(crypto.PubkeyToAddress(pk).Hex())
}

// DeriveAddress produces a deterministic address from the specified seeds.
// Nobody holds a private key for a derived address, so only the program that
// knows the seeds can allocate storage there.
func DeriveAddress(seeds ...[]byte) Address {
	hash := crypto.Keccak256(seeds...)
	return Address(common.BytesToAddress(hash[12:]).Hex())
}

// IsAddress verifies whether the underlying data represents a valid
// hex-encoded address.
func (a Address) IsAddress() bool {
	const addressLength = 20

	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*addressLength && isHex(a)
}

// Bytes returns the raw 20 bytes of the address.
func (a Address) Bytes() [common.AddressLength]byte {
	return common.HexToAddress(string(a))
}

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return string(a)
}

// =============================================================================

// has0xPrefix validates the address starts with a 0x.
func has0xPrefix(a Address) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a Address) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
