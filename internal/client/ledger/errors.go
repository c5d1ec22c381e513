package ledger

import "errors"

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrNotInitialized = errors.New("ledger is not initialized")
)
