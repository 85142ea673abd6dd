// Package blog implements the rules for creating and changing blog records.
// A record is created once per authority and only the authority can change
// the post and bio held in it. The record keeps the latest post only; the
// text of every write is logged so past posts can be read back through
// History.
package blog

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// Accounts is the storage the blog operations run against. The ledger
// provides it for the duration of a single execution.
type Accounts interface {
	Create(address ledger.Address, payer ledger.Payer, owner string, space int) error
	Load(address ledger.Address, owner string) ([]byte, error)
	Store(address ledger.Address, owner string, data []byte) error
	Log(msg string)
}

// Field selects which part of the record an update writes.
type Field int

// Set of record fields that can be updated.
const (
	FieldPost Field = iota + 1
	FieldBio
)

// String implements the fmt.Stringer interface.
func (f Field) String() string {
	switch f {
	case FieldPost:
		return "post"
	case FieldBio:
		return "bio"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Limit returns the maximum number of bytes the field can hold.
func (f Field) Limit() int {
	switch f {
	case FieldPost:
		return MaxPostLen
	case FieldBio:
		return MaxBioLen
	}
	return 0
}

// =============================================================================

// Initialize creates the record for the caller at the caller's record
// address. The funding payer covers the rent for the record's space. A bio
// is optional; when provided it is validated and logged.
func Initialize(accts Accounts, caller ledger.Address, funding ledger.Payer, bio []byte) (Record, error) {
	if err := validate(FieldBio, bio); err != nil {
		return Record{}, err
	}

	rec := Record{
		Authority: caller,
		Bio:       bio,
	}

	data, err := rec.Encode()
	if err != nil {
		return Record{}, err
	}

	address := RecordAddress(caller)

	if err := accts.Create(address, funding, ProgramID, Space); err != nil {
		if errors.Is(err, ledger.ErrAccountInUse) {
			return Record{}, fmt.Errorf("%w: %s", ErrAlreadyInitialized, address)
		}
		return Record{}, err
	}

	if err := accts.Store(address, ProgramID, data); err != nil {
		return Record{}, err
	}

	if len(bio) > 0 {
		accts.Log(string(bio))
	}

	return rec, nil
}

// UpdatePost replaces the latest post held by the record.
func UpdatePost(accts Accounts, caller ledger.Address, record ledger.Address, post []byte) error {
	return updateField(accts, caller, record, FieldPost, post)
}

// UpdateBio replaces the bio held by the record.
func UpdateBio(accts Accounts, caller ledger.Address, record ledger.Address, bio []byte) error {
	return updateField(accts, caller, record, FieldBio, bio)
}

// updateField is the single write path for record fields. The checks run in
// order: the record exists, the caller is the authority, the value fits and
// the value is utf-8. Nothing is written unless all of them pass.
func updateField(accts Accounts, caller ledger.Address, record ledger.Address, field Field, value []byte) error {
	data, err := accts.Load(record, ProgramID)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return fmt.Errorf("%w: %s", ErrNotInitialized, record)
		}
		return err
	}

	rec, err := Decode(data)
	if err != nil {
		return err
	}

	if rec.Authority != caller {
		return ErrUnauthorized
	}

	if err := validate(field, value); err != nil {
		return err
	}

	switch field {
	case FieldPost:
		rec.LatestPost = value
	case FieldBio:
		rec.Bio = value
	default:
		return fmt.Errorf("unknown field %s", field)
	}

	if data, err = rec.Encode(); err != nil {
		return err
	}

	if err := accts.Store(record, ProgramID, data); err != nil {
		return err
	}

	accts.Log(string(value))

	return nil
}

// validate checks the value fits the field and is utf-8 text.
func validate(field Field, value []byte) error {
	if len(value) > field.Limit() {
		return &CapacityError{Field: field, Limit: field.Limit(), Size: len(value)}
	}

	if offset := invalidOffset(value); offset >= 0 {
		return &EncodingError{Field: field, Offset: offset}
	}

	return nil
}
