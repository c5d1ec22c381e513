// Package models defines the client-side data models of the HMPI client:
// the persisted session record, processed datasets, prediction payloads and
// the local ledger journal.
package models

import "time"

// Session is the single persisted record describing the actor holding
// tokens. It is stored under one fixed key and replaced wholesale on reset.
type Session struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`

	// Tokens mirrors the ledger balance and is never negative.
	Tokens int `json:"tokens"`

	// Version increases on every local mutation. It lets a late remote
	// answer be recognised as stale.
	Version int64 `json:"version"`

	// Synced reports whether the remote ledger has acknowledged Version.
	Synced bool `json:"synced"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryKind names the reason of a ledger journal entry.
type EntryKind string

const (
	EntryAdd    EntryKind = "add"
	EntryDeduct EntryKind = "deduct"
	EntryReset  EntryKind = "reset"
	EntryRemote EntryKind = "remote"
	EntryCreate EntryKind = "create"
)

// LedgerEntry is one row of the local journal of balance changes.
type LedgerEntry struct {
	ID        int64
	UserID    string
	Kind      EntryKind
	Amount    int
	Balance   int
	Version   int64
	CreatedAt time.Time
}
