package blog

import (
	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// LogReader is the read-only side of the program log.
type LogReader interface {
	Logs(address ledger.Address, limit int) ([]ledger.LogEntry, error)
}

// Entry is one past write to a record recovered from the program log.
type Entry struct {
	Field     string `json:"field"`
	Text      string `json:"text"`
	Slot      uint64 `json:"slot"`
	Signature string `json:"signature"`
	TimeStamp uint64 `json:"timestamp"`
}

// History returns the past posts and bios written to the record, newest
// first. The record only holds the latest values so this is the only way
// to see what came before. A limit of zero or less returns everything.
func History(reader LogReader, record ledger.Address, limit int) ([]Entry, error) {

	// The limit is applied after filtering since executions that touched
	// the address without writing to it are skipped.
	logs, err := reader.Logs(record, 0)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, log := range logs {
		var field Field
		switch instruction.Kind(log.Instruction) {
		case instruction.KindUpdatePost:
			field = FieldPost
		case instruction.KindInitialize, instruction.KindUpdateBio:
			field = FieldBio
		default:
			continue
		}

		for _, msg := range log.Messages {
			if limit > 0 && len(entries) == limit {
				return entries, nil
			}

			entry := Entry{
				Field:     field.String(),
				Text:      msg,
				Slot:      log.Slot,
				Signature: log.Signature,
				TimeStamp: log.TimeStamp,
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
