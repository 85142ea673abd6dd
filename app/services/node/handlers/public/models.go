package public

import (
	"math/big"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// submitInstruction is the signed instruction a wallet posts to the node.
type submitInstruction struct {
	ChainID uint16   `json:"chain_id" validate:"required"`
	Nonce   uint64   `json:"nonce" validate:"required"`
	Kind    string   `json:"kind" validate:"required,oneof=initialize update_post update_bio transfer"`
	Account string   `json:"account,omitempty" validate:"omitempty,eth_addr"`
	Value   uint64   `json:"value,omitempty"`
	Data    []byte   `json:"data"`
	V       *big.Int `json:"v" validate:"required"`
	R       *big.Int `json:"r" validate:"required"`
	S       *big.Int `json:"s" validate:"required"`
}

func (si submitInstruction) toSigned() instruction.SignedInstruction {
	return instruction.SignedInstruction{
		Instruction: instruction.Instruction{
			ChainID: si.ChainID,
			Nonce:   si.Nonce,
			Kind:    instruction.Kind(si.Kind),
			Account: si.Account,
			Value:   si.Value,
			Data:    si.Data,
		},
		V: si.V,
		R: si.R,
		S: si.S,
	}
}

type receipt struct {
	Slot      uint64   `json:"slot"`
	Signature string   `json:"signature"`
	Signer    string   `json:"signer"`
	Logs      []string `json:"logs"`
}

type record struct {
	Address       ledger.Address `json:"address"`
	Authority     ledger.Address `json:"authority"`
	AuthorityName string         `json:"authority_name"`
	LatestPost    string         `json:"latest_post"`
	Bio           string         `json:"bio"`
}

func toRecord(address ledger.Address, rec blog.Record, name string) record {
	return record{
		Address:       address,
		Authority:     rec.Authority,
		AuthorityName: name,
		LatestPost:    string(rec.LatestPost),
		Bio:           string(rec.Bio),
	}
}

type history struct {
	Address ledger.Address `json:"address"`
	Entries []blog.Entry   `json:"entries"`
}

type account struct {
	Address ledger.Address `json:"address"`
	Name    string         `json:"name"`
	Owner   string         `json:"owner,omitempty"`
	Balance uint64         `json:"balance"`
	Nonce   uint64         `json:"nonce"`
	Space   int            `json:"space,omitempty"`
}
