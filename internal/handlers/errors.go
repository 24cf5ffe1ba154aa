// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clipcoin/clipcoin-backend/internal/i18n"
	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

// handleServiceError maps the ledger failure taxonomy onto HTTP responses.
// Anything outside the taxonomy is a storage or programming fault and is
// reported as an opaque 500.
func handleServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrVideoNotFound):
		utils.NotFoundResponse(c, "video")
	case errors.Is(err, services.ErrTransactionNotFound):
		utils.NotFoundResponse(c, "transaction")
	case errors.Is(err, services.ErrInsufficientCredits):
		utils.ErrorResponse(c, http.StatusBadRequest, "INSUFFICIENT_CREDITS",
			i18n.T(lang, i18n.KeyCreditsInsufficient), nil)
	case errors.Is(err, services.ErrAlreadyUnlocked):
		utils.ErrorResponse(c, http.StatusBadRequest, "ALREADY_UNLOCKED",
			i18n.T(lang, i18n.KeyUnlockAlreadyUnlocked), nil)
	case errors.Is(err, services.ErrDuplicateTransaction):
		utils.ErrorResponse(c, http.StatusBadRequest, "DUPLICATE_TRANSACTION",
			i18n.T(lang, i18n.KeyTxDuplicate), nil)
	case errors.Is(err, services.ErrInvalidAmount):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_AMOUNT",
			i18n.T(lang, i18n.KeyPaymentInvalidAmount), nil)
	case errors.Is(err, services.ErrInvalidCreditAmount):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_CREDIT_AMOUNT",
			i18n.T(lang, i18n.KeyCreditsInvalid), nil)
	case errors.Is(err, services.ErrNotRefundable):
		utils.ErrorResponse(c, http.StatusBadRequest, "NOT_REFUNDABLE",
			i18n.T(lang, i18n.KeyTxNotRefundable), nil)
	case errors.Is(err, services.ErrVideoLocked):
		utils.ErrorResponse(c, http.StatusForbidden, "VIDEO_LOCKED",
			i18n.T(lang, i18n.KeyVideoLocked), nil)
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}
