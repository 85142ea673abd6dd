// Package instruction defines the signed envelope a wallet submits to the
// node to run a blog operation or move value between accounts.
package instruction

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/blockchain/signature"
)

// Kind names the operation an instruction performs.
type Kind string

// Set of instruction kinds understood by the node.
const (
	KindInitialize Kind = "initialize"
	KindUpdatePost Kind = "update_post"
	KindUpdateBio  Kind = "update_bio"
	KindTransfer   Kind = "transfer"
)

// IsValid reports whether the kind is one the node can run.
func (k Kind) IsValid() bool {
	switch k {
	case KindInitialize, KindUpdatePost, KindUpdateBio, KindTransfer:
		return true
	}
	return false
}

// =============================================================================

// Instruction is the data signed by a wallet.
type Instruction struct {
	ChainID uint16 `json:"chain_id"`          // The chain id that is listed in the genesis file.
	Nonce   uint64 `json:"nonce"`             // Unique id for the instruction supplied by the signer.
	Kind    Kind   `json:"kind"`              // The operation to run.
	Account string `json:"account,omitempty"` // Record address for updates or the receiver of a transfer.
	Value   uint64 `json:"value,omitempty"`   // Amount moved by a transfer.
	Data    []byte `json:"data"`              // Post or bio bytes for the operation.
}

// New constructs a new blog instruction.
func New(chainID uint16, nonce uint64, kind Kind, account string, data []byte) (Instruction, error) {
	if !kind.IsValid() {
		return Instruction{}, fmt.Errorf("unknown instruction kind %q", kind)
	}

	if kind == KindTransfer {
		return Instruction{}, fmt.Errorf("use NewTransfer to construct a transfer")
	}

	if account != "" && !ledger.Address(account).IsAddress() {
		return Instruction{}, fmt.Errorf("account address is not properly formatted")
	}

	inst := Instruction{
		ChainID: chainID,
		Nonce:   nonce,
		Kind:    kind,
		Account: account,
		Data:    data,
	}

	return inst, nil
}

// NewTransfer constructs an instruction that moves value from the signer
// to the specified address.
func NewTransfer(chainID uint16, nonce uint64, to string, value uint64) (Instruction, error) {
	if !ledger.Address(to).IsAddress() {
		return Instruction{}, fmt.Errorf("to address is not properly formatted")
	}

	if value == 0 {
		return Instruction{}, fmt.Errorf("value must be greater than zero")
	}

	inst := Instruction{
		ChainID: chainID,
		Nonce:   nonce,
		Kind:    KindTransfer,
		Account: to,
		Value:   value,
	}

	return inst, nil
}

// Sign uses the specified private key to sign the instruction.
func (inst Instruction) Sign(privateKey *ecdsa.PrivateKey) (SignedInstruction, error) {
	if !inst.Kind.IsValid() {
		return SignedInstruction{}, fmt.Errorf("unknown instruction kind %q", inst.Kind)
	}

	v, r, s, err := signature.Sign(inst, privateKey)
	if err != nil {
		return SignedInstruction{}, err
	}

	signed := SignedInstruction{
		Instruction: inst,
		V:           v,
		R:           r,
		S:           s,
	}

	return signed, nil
}

// =============================================================================

// SignedInstruction is a signed version of the instruction.
type SignedInstruction struct {
	Instruction
	V *big.Int `json:"v"` // Recovery identifier, either 29 or 30.
	R *big.Int `json:"r"` // First coordinate of the ECDSA signature.
	S *big.Int `json:"s"` // Second coordinate of the ECDSA signature.
}

// VerifySignature verifies the signature conforms to our standards.
func (si SignedInstruction) VerifySignature() error {
	return signature.VerifySignature(si.V, si.R, si.S)
}

// FromAddress extracts the address for the account that signed the
// instruction.
func (si SignedInstruction) FromAddress() (ledger.Address, error) {
	from, err := signature.FromAddress(si.Instruction, si.V, si.R, si.S)
	if err != nil {
		return "", err
	}

	return ledger.Address(from), nil
}

// SignatureString returns the signature as a string.
func (si SignedInstruction) SignatureString() string {
	return signature.SignatureString(si.V, si.R, si.S)
}

// String implements the fmt.Stringer interface for logging.
func (si SignedInstruction) String() string {
	from, err := si.FromAddress()
	if err != nil {
		from = "unknown"
	}

	return fmt.Sprintf("%s:%d:%s", from, si.Nonce, si.Kind)
}
