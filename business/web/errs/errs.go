// Package errs provides types and support related to web error handling.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/blogchain/business/core/blog"
	"github.com/ardanlabs/blogchain/business/core/program"
	"github.com/ardanlabs/blogchain/foundation/blockchain/ledger"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Offset *int              `json:"offset,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// statuses maps the errors the core can return to the status sent back to
// the client. Order matters since the first match wins.
var statuses = []struct {
	err    error
	kind   string
	status int
}{
	{blog.ErrInvalidEncoding, "InvalidEncoding", http.StatusBadRequest},
	{blog.ErrCapacityExceeded, "CapacityExceeded", http.StatusBadRequest},
	{blog.ErrUnauthorized, "Unauthorized", http.StatusForbidden},
	{blog.ErrNotInitialized, "NotInitialized", http.StatusNotFound},
	{blog.ErrAlreadyInitialized, "AlreadyInitialized", http.StatusConflict},
	{ledger.ErrInsufficientFunds, "InsufficientFunds", http.StatusPaymentRequired},
	{ledger.ErrZeroValue, "InvalidValue", http.StatusBadRequest},
	{ledger.ErrNonce, "InvalidNonce", http.StatusConflict},
	{ledger.ErrAccountNotFound, "AccountNotFound", http.StatusNotFound},
	{program.ErrSignature, "InvalidSignature", http.StatusUnauthorized},
	{program.ErrChainID, "WrongChain", http.StatusBadRequest},
	{program.ErrAccount, "InvalidAccount", http.StatusBadRequest},
	{program.ErrRecordAddress, "InvalidRecordAddress", http.StatusBadRequest},
}

// FromCore wraps an error returned by the core with the status it maps to.
// Errors the core doesn't know about are returned unchanged and end up as
// internal server errors.
func FromCore(err error) error {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return NewTrusted(err, s.status)
		}
	}
	return err
}

// NewResponse builds the response body for a trusted error.
func NewResponse(err error) Response {
	resp := Response{
		Error: err.Error(),
	}

	for _, s := range statuses {
		if errors.Is(err, s.err) {
			resp.Kind = s.kind
			break
		}
	}

	var ee *blog.EncodingError
	if errors.As(err, &ee) {
		offset := ee.Offset
		resp.Offset = &offset
	}

	return resp
}
