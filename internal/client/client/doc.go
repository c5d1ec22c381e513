// Package client talks to the HMPI processing backend and bootstraps the
// local store.
//
// # Overview
//
// The Client interface is the contract of the backend: dataset processing,
// the remote token ledger, predictions, chart specs and report downloads.
// It is split into small role interfaces (Processor, Ledger, Predictor,
// Reporter) so services depend only on what they call. HTTPClient is the
// only implementation; it speaks plain HTTP/JSON against a configurable
// base URL.
//
// # Error Handling
//
// Transport failures and 5xx answers match ErrUnavailable, 404 matches
// ErrNotFound, other non-2xx answers match ErrBackend. A 403 from
// POST /process is returned as *InsufficientTokensError, which matches
// ErrInsufficientTokens. Nothing is retried.
//
// # Local store
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations (see internal/client/migrations).
package client
