package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger failures for callers
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindInvalidState     ErrorKind = "invalid_state"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindInvalidWinner    ErrorKind = "invalid_winner"
	KindValidation       ErrorKind = "validation_error"
	KindStoreUnavailable ErrorKind = "store_unavailable"
)

// LedgerError is returned by every ledger operation that fails
type LedgerError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *LedgerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// Is matches any LedgerError of the same kind, so sentinels work with errors.Is
func (e *LedgerError) Is(target error) bool {
	var t *LedgerError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is matching by kind
var (
	ErrNotFound         = &LedgerError{Kind: KindNotFound}
	ErrInvalidState     = &LedgerError{Kind: KindInvalidState}
	ErrUnauthorized     = &LedgerError{Kind: KindUnauthorized}
	ErrInvalidWinner    = &LedgerError{Kind: KindInvalidWinner}
	ErrValidation       = &LedgerError{Kind: KindValidation}
	ErrStoreUnavailable = &LedgerError{Kind: KindStoreUnavailable}
)

// ErrWagerIDTaken is returned by WagerRepository.Create when the ID is already stored
var ErrWagerIDTaken = errors.New("wager id already exists")

func newLedgerError(kind ErrorKind, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// storeError wraps an unexpected persistence failure
func storeError(op string, err error) *LedgerError {
	return &LedgerError{Kind: KindStoreUnavailable, Message: op, Cause: err}
}

// KindOf returns the kind of a ledger error, or store_unavailable for anything else
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindStoreUnavailable
}

// IsRetryable reports whether the caller may retry the operation
func IsRetryable(err error) bool {
	return err != nil && KindOf(err) == KindStoreUnavailable
}
