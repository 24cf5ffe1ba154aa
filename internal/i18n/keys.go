// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthConnected    = "auth.connected"

	// User Management
	KeyUserNotFound       = "user.not_found"
	KeyUserCreated        = "user.created"
	KeyUserWalletRequired = "user.wallet_required"
	KeyUserSuspended      = "user.suspended"

	// Videos
	KeyVideoNotFound = "video.not_found"
	KeyVideoLocked   = "video.locked"

	// Credits
	KeyCreditsInsufficient = "credits.insufficient"
	KeyCreditsAdded        = "credits.added"
	KeyCreditsInvalid      = "credits.invalid_amount"

	// Ledger
	KeyUnlockAlreadyUnlocked = "unlock.already_unlocked"
	KeyUnlockSuccess         = "unlock.success"
	KeyTxDuplicate           = "transaction.duplicate"
	KeyTxNotFound            = "transaction.not_found"
	KeyTxNotRefundable       = "transaction.not_refundable"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentPending       = "payment.pending"
	KeyPaymentRefunded      = "payment.refunded"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
