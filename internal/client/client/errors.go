package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable        = errors.New("backend unavailable")
	ErrBackend            = errors.New("backend error")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientTokens = errors.New("insufficient tokens")
)

// StatusError is a non-2xx backend answer. It matches ErrNotFound for 404,
// ErrUnavailable for 5xx and ErrBackend otherwise.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend http %d", e.Code)
	}
	return fmt.Sprintf("backend http %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	switch {
	case e.Code == 404:
		return target == ErrNotFound
	case e.Code >= 500:
		return target == ErrUnavailable
	default:
		return target == ErrBackend
	}
}

// InsufficientTokensError is the 403 answer of POST /process.
type InsufficientTokensError struct {
	CurrentTokens  int    `json:"current_tokens"`
	TokensRequired int    `json:"tokens_required"`
	RowCount       int    `json:"row_count"`
	Message        string `json:"message"`
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: %d required, %d available", e.TokensRequired, e.CurrentTokens)
}

func (e *InsufficientTokensError) Is(target error) bool {
	return target == ErrInsufficientTokens
}

// Deficit is how many tokens are missing for the rejected request.
func (e *InsufficientTokensError) Deficit() int {
	if d := e.TokensRequired - e.CurrentTokens; d > 0 {
		return d
	}
	return 0
}
