package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/foundation/blockchain/instruction"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/blockchain/signature"
)

type receipt struct {
	Slot      uint64   `json:"slot"`
	Signature string   `json:"signature"`
	Logs      []string `json:"logs"`
}

type account struct {
	Address ledger.Address `json:"address"`
	Balance uint64         `json:"balance"`
	Nonce   uint64         `json:"nonce"`
}

type record struct {
	Address       ledger.Address `json:"address"`
	AuthorityName string         `json:"authority_name"`
	LatestPost    string         `json:"latest_post"`
	Bio           string         `json:"bio"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Offset *int   `json:"offset"`
}

// client talks to the public API of a node.
type client struct {
	url  string
	http *http.Client
}

func newClient(url string) *client {
	return &client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// submit signs a blog instruction with the next nonce for the key and
// sends it.
func (c *client) submit(privateKey *ecdsa.PrivateKey, kind instruction.Kind, recordAddress string, data []byte) (receipt, error) {
	return c.send(privateKey, func(chainID uint16, nonce uint64) (instruction.Instruction, error) {
		return instruction.New(chainID, nonce, kind, recordAddress, data)
	})
}

// transfer signs a transfer of value to the address and sends it.
func (c *client) transfer(privateKey *ecdsa.PrivateKey, to ledger.Address, value uint64) (receipt, error) {
	return c.send(privateKey, func(chainID uint16, nonce uint64) (instruction.Instruction, error) {
		return instruction.NewTransfer(chainID, nonce, string(to), value)
	})
}

// send builds the instruction for the node's chain and the key's next nonce,
// signs it and posts it. The signature in the receipt must recover to the key
// or the node ran something other than what was signed.
func (c *client) send(privateKey *ecdsa.PrivateKey, build func(chainID uint16, nonce uint64) (instruction.Instruction, error)) (receipt, error) {
	signer := ledger.PublicKeyToAddress(privateKey.PublicKey)

	acct, err := c.account(signer)
	if err != nil {
		return receipt{}, err
	}

	gen := struct {
		ChainID uint16 `json:"chain_id"`
	}{}
	if err := c.get("/v1/genesis/list", &gen); err != nil {
		return receipt{}, err
	}

	inst, err := build(gen.ChainID, acct.Nonce+1)
	if err != nil {
		return receipt{}, err
	}

	signed, err := inst.Sign(privateKey)
	if err != nil {
		return receipt{}, err
	}

	body, err := json.Marshal(signed)
	if err != nil {
		return receipt{}, err
	}

	resp, err := c.http.Post(c.url+"/v1/tx/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		return receipt{}, err
	}
	defer resp.Body.Close()

	var rcpt receipt
	if err := decode(resp, &rcpt); err != nil {
		return receipt{}, err
	}

	if err := checkReceipt(rcpt, inst, signer); err != nil {
		return receipt{}, err
	}

	return rcpt, nil
}

func (c *client) account(address ledger.Address) (account, error) {
	var acct account
	if err := c.get("/v1/accounts/"+string(address), &acct); err != nil {
		return account{}, err
	}
	return acct, nil
}

func (c *client) recordOf(authority string) (record, error) {
	var rec record
	if err := c.get("/v1/blogs/authority/"+authority, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

func (c *client) history(address string, limit int) ([]blog.Entry, error) {
	var h struct {
		Entries []blog.Entry `json:"entries"`
	}
	if err := c.get(fmt.Sprintf("/v1/blogs/%s/history?limit=%d", address, limit), &h); err != nil {
		return nil, err
	}
	return h.Entries, nil
}

func (c *client) get(path string, v any) error {
	resp, err := c.http.Get(c.url + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, v)
}

func decode(resp *http.Response, v any) error {
	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned %s", resp.Status)
		}
		if er.Offset != nil {
			return fmt.Errorf("%s: %s (offset %d)", er.Kind, er.Error, *er.Offset)
		}
		return fmt.Errorf("%s: %s", er.Kind, er.Error)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// checkReceipt recovers the signer from the signature the node reports
// against the instruction that was sent.
func checkReceipt(rcpt receipt, inst instruction.Instruction, signer ledger.Address) error {
	v, r, s, err := signature.ToVRSFromHexSignature(rcpt.Signature)
	if err != nil {
		return fmt.Errorf("receipt signature: %w", err)
	}

	from, err := signature.FromAddress(inst, v, r, s)
	if err != nil {
		return fmt.Errorf("receipt signature: %w", err)
	}

	if ledger.Address(from) != signer {
		return fmt.Errorf("receipt signature recovers %s, expected %s", from, signer)
	}

	return nil
}
