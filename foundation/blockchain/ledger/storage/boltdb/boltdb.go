// Package boltdb implements ledger storage on disk using a bbolt database.
// Every commit is a single bolt transaction so a batch is either fully
// written or not written at all.
package boltdb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	bolt "go.etcd.io/bbolt"
)

// Set of buckets the ledger lives in.
var (
	bucketAccounts = []byte("accounts")
	bucketLogs     = []byte("logs")
	bucketIndex    = []byte("logs_by_address")
	bucketMeta     = []byte("meta")

	keySlot = []byte("slot")
)

// Bolt represents the storage implementation for reading and writing the
// ledger with bbolt. This implements the ledger.Storage interface.
type Bolt struct {
	db *bolt.DB
}

// New opens or creates the database file at the path.
func New(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketLogs, bucketIndex, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Account returns the account at the address.
func (b *Bolt) Account(address ledger.Address) (ledger.Account, error) {
	var account ledger.Account

	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get([]byte(address))
		if data == nil {
			return ledger.ErrAccountNotFound
		}

		return json.Unmarshal(data, &account)
	})
	if err != nil {
		return ledger.Account{}, err
	}

	return account, nil
}

// Accounts returns every account in the database.
func (b *Bolt) Accounts() ([]ledger.Account, error) {
	var accounts []ledger.Account

	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, data []byte) error {
			var account ledger.Account
			if err := json.Unmarshal(data, &account); err != nil {
				return err
			}
			accounts = append(accounts, account)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Logs returns the entries indexed under the address, newest first.
func (b *Bolt) Logs(address ledger.Address, limit int) ([]ledger.LogEntry, error) {
	var entries []ledger.LogEntry

	err := b.db.View(func(tx *bolt.Tx) error {
		prefix := address.Bytes()

		// Index keys are the address followed by the big endian slot, so
		// the entries for one address sit together in slot order.
		var slots [][]byte
		c := tx.Bucket(bucketIndex).Cursor()
		for k, _ := c.Seek(prefix[:]); k != nil && bytes.HasPrefix(k, prefix[:]); k, _ = c.Next() {
			slots = append(slots, k[len(prefix):])
		}

		logs := tx.Bucket(bucketLogs)
		for i := len(slots) - 1; i >= 0; i-- {
			if limit > 0 && len(entries) == limit {
				break
			}

			data := logs.Get(slots[i])
			if data == nil {
				return fmt.Errorf("log index points at missing slot %d", binary.BigEndian.Uint64(slots[i]))
			}

			var entry ledger.LogEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Slot returns the last committed slot.
func (b *Bolt) Slot() (uint64, error) {
	var slot uint64

	err := b.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keySlot); data != nil {
			slot = binary.BigEndian.Uint64(data)
		}
		return nil
	})

	return slot, err
}

// Commit writes the batch inside one bolt transaction.
func (b *Bolt) Commit(batch ledger.Batch) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)

		if current := meta.Get(keySlot); current != nil && batch.Slot != 0 {
			if batch.Slot <= binary.BigEndian.Uint64(current) {
				return fmt.Errorf("slot %d is out of order", batch.Slot)
			}
		}

		accounts := tx.Bucket(bucketAccounts)
		for _, account := range batch.Accounts {
			data, err := json.Marshal(account)
			if err != nil {
				return err
			}

			if err := accounts.Put([]byte(account.Address), data); err != nil {
				return err
			}
		}

		slotKey := encodeSlot(batch.Slot)

		if batch.Entry != nil {
			data, err := json.Marshal(batch.Entry)
			if err != nil {
				return err
			}

			if err := tx.Bucket(bucketLogs).Put(slotKey, data); err != nil {
				return err
			}

			index := tx.Bucket(bucketIndex)
			for _, address := range batch.Entry.Accounts {
				prefix := address.Bytes()
				if err := index.Put(append(prefix[:], slotKey...), []byte{}); err != nil {
					return err
				}
			}
		}

		return meta.Put(keySlot, slotKey)
	})
}

// =============================================================================

// encodeSlot returns the big endian form of the slot so keys sort by slot.
func encodeSlot(slot uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, slot)
	return key
}
