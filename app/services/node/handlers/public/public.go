// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/blogchain/business/core/program"
	"github.com/ardanlabs/blogchain/business/web/errs"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/blogchain/foundation/events"
	"github.com/ardanlabs/blogchain/foundation/nameservice"
	"github.com/ardanlabs/blogchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// defaultHistoryLimit is the number of history entries returned when the
// client doesn't ask for a specific number.
const defaultHistoryLimit = 100

// Handlers manages the set of blog endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Program *program.Program
	NS      *nameservice.NameService
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Submit runs a signed instruction against the ledger.
func (h Handlers) Submit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var si submitInstruction
	if err := web.Decode(r, &si); err != nil {
		return err
	}

	signed := si.toSigned()

	h.Log.Infow("submit instruction", "traceid", v.TraceID, "from:nonce:kind", signed, "account", signed.Account, "bytes", len(signed.Data))

	rcpt, err := h.Program.Submit(signed)
	if err != nil {
		return errs.FromCore(err)
	}

	signer, _ := signed.FromAddress()

	resp := receipt{
		Slot:      rcpt.Slot,
		Signature: rcpt.Signature,
		Signer:    h.NS.Lookup(signer),
		Logs:      rcpt.Logs,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Program.Genesis(), http.StatusOK)
}

// Account returns the balance and nonce for an address.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.address(web.Param(r, "account"))
	if err != nil {
		return err
	}

	acct, err := h.Program.Account(address)
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		acct = ledger.Account{Address: address}
	case err != nil:
		return err
	}

	resp := account{
		Address: address,
		Name:    h.NS.Lookup(address),
		Owner:   acct.Owner,
		Balance: acct.Balance,
		Nonce:   acct.Nonce,
		Space:   acct.Space,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Record returns the blog record stored at the record address.
func (h Handlers) Record(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.address(web.Param(r, "account"))
	if err != nil {
		return err
	}

	rec, err := h.Program.Record(address)
	if err != nil {
		return errs.FromCore(err)
	}

	return web.Respond(ctx, w, toRecord(address, rec, h.NS.Lookup(rec.Authority)), http.StatusOK)
}

// RecordOf returns the blog record created by the authority.
func (h Handlers) RecordOf(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	authority, err := h.address(web.Param(r, "authority"))
	if err != nil {
		return err
	}

	address, rec, err := h.Program.RecordOf(authority)
	if err != nil {
		return errs.FromCore(err)
	}

	return web.Respond(ctx, w, toRecord(address, rec, h.NS.Lookup(rec.Authority)), http.StatusOK)
}

// History returns the past posts and bios written to a record.
func (h Handlers) History(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address, err := h.address(web.Param(r, "account"))
	if err != nil {
		return err
	}

	limit, err := web.QueryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	entries, err := h.Program.History(address, limit)
	if err != nil {
		return errs.FromCore(err)
	}

	resp := history{
		Address: address,
		Entries: entries,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// address accepts either a hex address or a name known to the name service.
func (h Handlers) address(param string) (ledger.Address, error) {
	address, err := h.NS.Resolve(param)
	if err != nil {
		return "", errs.NewTrusted(fmt.Errorf("%q: %w", param, err), http.StatusBadRequest)
	}
	return address, nil
}
