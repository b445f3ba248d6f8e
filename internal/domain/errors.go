package domain

import "errors"

// Ledger flow errors. Handlers map these onto the JSON error envelope:
// precondition violations are 400s, missing records 404s, integrity faults
// 500s.
var (
	ErrProviderNotFound    = errors.New("provider profile not found")
	ErrProviderNotApproved = errors.New("provider is not approved")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRequestNotFound     = errors.New("request not found")
	ErrRequestNotPublished = errors.New("only published requests can be unlocked")
	ErrAlreadyUnlocked     = errors.New("request already unlocked")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnlockNotFound      = errors.New("unlock not found")
	ErrAlreadyRefunded     = errors.New("unlock already refunded")
	ErrZeroAmount          = errors.New("amount must be non-zero")
	ErrSessionMismatch     = errors.New("confirmation does not match payment session")
	// ErrWalletIntegrity means a wallet row is missing for an existing
	// provider. Never expected; signals a prior bug, reported as 500.
	ErrWalletIntegrity = errors.New("wallet missing for provider")
)
