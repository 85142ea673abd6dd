package ledger

// Storage interface represents the behavior required to be implemented by any
// package providing support for persisting ledger accounts and the program
// log.
type Storage interface {
	Account(address Address) (Account, error)
	Accounts() ([]Account, error)
	Logs(address Address, limit int) ([]LogEntry, error)
	Slot() (uint64, error)
	Commit(batch Batch) error
	Close() error
}
