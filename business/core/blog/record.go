package blog

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/near/borsh-go"
)

// ProgramID is the owner recorded on every blog record account.
const ProgramID = "blog"

// Record layout limits.
const (
	MaxPostLen = 566
	MaxBioLen  = 256
	HeaderLen  = 8
)

// lenPrefix is the size of the length borsh writes in front of a byte slice.
const lenPrefix = 4

// Space is the number of bytes reserved for a record: the header, the
// authority and both fields at their maximum size.
const Space = HeaderLen + common.AddressLength + lenPrefix + MaxPostLen + lenPrefix + MaxBioLen

// discriminator is the record header. It marks the account data as a blog
// record so random bytes are never decoded as one.
var discriminator = func() []byte {
	h := sha256.Sum256([]byte("account:BlogRecord"))
	return h[:HeaderLen]
}()

// Record is the blog state kept for one author.
type Record struct {
	Authority  ledger.Address
	LatestPost []byte
	Bio        []byte
}

// RecordAddress returns the address of the record owned by the authority.
// Each authority has exactly one record.
func RecordAddress(authority ledger.Address) ledger.Address {
	a := authority.Bytes()
	return ledger.DeriveAddress([]byte(ProgramID), a[:])
}

// =============================================================================

// layout is the borsh shape of a record after the header.
type layout struct {
	Authority  [common.AddressLength]byte
	LatestPost []byte
	Bio        []byte
}

// Encode returns the bytes stored in the record account.
func (r Record) Encode() ([]byte, error) {
	l := layout{
		Authority:  r.Authority.Bytes(),
		LatestPost: r.LatestPost,
		Bio:        r.Bio,
	}

	data, err := borsh.Serialize(l)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return append(append(make([]byte, 0, HeaderLen+len(data)), discriminator...), data...), nil
}

// Decode converts account data back into a record.
func Decode(data []byte) (Record, error) {
	if len(data) < HeaderLen || !bytes.Equal(data[:HeaderLen], discriminator) {
		return Record{}, errors.New("account data is not a blog record")
	}

	var l layout
	if err := borsh.Deserialize(&l, data[HeaderLen:]); err != nil {
		return Record{}, fmt.Errorf("decoding record: %w", err)
	}

	// The layout has to account for every byte after the header.
	if size := HeaderLen + common.AddressLength + lenPrefix + len(l.LatestPost) + lenPrefix + len(l.Bio); size != len(data) {
		return Record{}, fmt.Errorf("decoding record: %d trailing bytes", len(data)-size)
	}

	r := Record{
		Authority:  ledger.Address(common.Address(l.Authority).Hex()),
		LatestPost: l.LatestPost,
		Bio:        l.Bio,
	}

	return r, nil
}
