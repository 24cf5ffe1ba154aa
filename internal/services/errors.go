// internal/services/errors.go
package services

import "errors"

// Ledger failure taxonomy. Handlers map these to HTTP status codes; the
// ledger itself never retries.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrAlreadyUnlocked      = errors.New("video already unlocked")
	ErrDuplicateTransaction = errors.New("transaction hash already used")
	ErrInvalidAmount        = errors.New("invalid payment amount")
	ErrInsufficientCredits  = errors.New("insufficient view credits")
	ErrInvalidCreditAmount  = errors.New("credits to add must be a positive integer")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotRefundable        = errors.New("transaction cannot be refunded")
	ErrVideoLocked          = errors.New("video is locked")
)
