// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date        time.Time         `json:"date"`
	ChainID     uint16            `json:"chain_id"`      // The chain id represents an unique id for this running instance.
	RentPerByte uint64            `json:"rent_per_byte"` // Cost charged to the payer for each byte of account space.
	Balances    map[string]uint64 `json:"balances"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	return genesis, nil
}
