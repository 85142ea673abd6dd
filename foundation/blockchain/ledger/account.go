package ledger

import (
	"errors"
	"sort"
)

// Set of error variables for account access.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInUse      = errors.New("account already in use")
	ErrOwner             = errors.New("account is owned by a different program")
	ErrCapacity          = errors.New("data exceeds account capacity")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNonce             = errors.New("invalid nonce")
	ErrPayer             = errors.New("payer must be the signer of the execution")
	ErrZeroValue         = errors.New("transfer value must be greater than zero")
)

// Account represents information stored on the ledger for an individual
// address. Accounts with an owner hold program data inside a fixed capacity
// that was reserved and paid for when the account was created.
type Account struct {
	Address Address `json:"address"`
	Owner   string  `json:"owner,omitempty"`
	Balance uint64  `json:"balance"`
	Nonce   uint64  `json:"nonce"`
	Space   int     `json:"space,omitempty"`
	Data    []byte  `json:"data,omitempty"`
}

// Allocated reports whether the account has been claimed by a program.
func (a Account) Allocated() bool {
	return a.Owner != ""
}

// clone returns a copy of the account that shares no memory with the original.
func (a Account) clone() Account {
	if a.Data != nil {
		data := make([]byte, len(a.Data))
		copy(data, a.Data)
		a.Data = data
	}
	return a
}

// =============================================================================

// LogEntry is the record of a committed execution. The messages are the text
// programs logged while executing, and the entry is indexed by every address
// the execution touched.
type LogEntry struct {
	Slot        uint64    `json:"slot"`
	Signature   string    `json:"signature"`
	Signer      Address   `json:"signer"`
	Instruction string    `json:"instruction"`
	Accounts    []Address `json:"accounts"`
	Messages    []string  `json:"messages"`
	TimeStamp   uint64    `json:"timestamp"`
}

// Receipt is returned to the caller of a successful execution.
type Receipt struct {
	Slot      uint64   `json:"slot"`
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}

// Batch is the unit of work handed to storage on commit. Everything in the
// batch is written or nothing is.
type Batch struct {
	Slot     uint64
	Accounts []Account
	Entry    *LogEntry
}

// =============================================================================

// byAddress provides sorting support by the address value.
type byAddress []Account

// Len returns the number of accounts in the list.
func (ba byAddress) Len() int {
	return len(ba)
}

// Less helps to sort the list by address in ascending order.
func (ba byAddress) Less(i, j int) bool {
	return ba[i].Address < ba[j].Address
}

// Swap moves accounts in the order of the address value.
func (ba byAddress) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}

// SortAccounts orders the accounts by address.
func SortAccounts(accounts []Account) {
	sort.Sort(byAddress(accounts))
}
