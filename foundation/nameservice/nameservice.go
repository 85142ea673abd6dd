// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup for the known authors.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	names     map[ledger.Address]string
	addresses map[string]ledger.Address
}

// New constructs a name service with the accounts from the folder. The
// name of an account is the key file name without the .ecdsa extension.
func New(root string) (*NameService, error) {
	ns := NameService{
		names:     make(map[ledger.Address]string),
		addresses: make(map[string]ledger.Address),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return err
		}

		address := ledger.PublicKeyToAddress(privateKey.PublicKey)
		name := strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		ns.names[address] = name
		ns.addresses[name] = address

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address, or the address itself
// when it has no name.
func (ns *NameService) Lookup(address ledger.Address) string {
	name, exists := ns.names[address]
	if !exists {
		return string(address)
	}
	return name
}

// Resolve accepts a name or a hex address and returns the address.
func (ns *NameService) Resolve(nameOrAddress string) (ledger.Address, error) {
	if address, exists := ns.addresses[nameOrAddress]; exists {
		return address, nil
	}
	return ledger.ToAddress(nameOrAddress)
}

// Copy returns a copy of the map of names and addresses.
func (ns *NameService) Copy() map[ledger.Address]string {
	cpy := make(map[ledger.Address]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
