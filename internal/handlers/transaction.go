// internal/handlers/transaction.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipcoin/clipcoin-backend/internal/models"
	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

func paymentMethod(raw string) models.PaymentMethod {
	return models.PaymentMethod(raw)
}

type TransactionHandler struct {
	ledgerService *services.LedgerService
}

func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

type unlockRequest struct {
	UserID          uuid.UUID `json:"userId" validate:"required"`
	VideoID         uuid.UUID `json:"videoId" validate:"required"`
	TransactionHash string    `json:"transactionHash" validate:"required,eth_hash"`
	PaymentMethod   string    `json:"paymentMethod" validate:"required,oneof=crypto basepay credit farcaster"`
	Amount          int64     `json:"amount" validate:"required,min=1"`
	AmountDisplay   string    `json:"amountDisplay,omitempty"`
}

// Unlock grants permanent access to a paid video against a payment proof.
func (h *TransactionHandler) Unlock(c *gin.Context) {
	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	result, err := h.ledgerService.UnlockVideo(req.UserID, req.VideoID, services.UnlockProof{
		TransactionHash: req.TransactionHash,
		PaymentMethod:   paymentMethod(req.PaymentMethod),
		Amount:          req.Amount,
		AmountDisplay:   req.AmountDisplay,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

type tipRequest struct {
	FromUserID      uuid.UUID          `json:"fromUserId" validate:"required"`
	VideoID         uuid.UUID          `json:"videoId" validate:"required"`
	TransactionData tipTransactionData `json:"transactionData" validate:"required"`
}

type tipTransactionData struct {
	Amount          int64  `json:"amount" validate:"required,min=1"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=crypto basepay credit farcaster"`
	TransactionHash string `json:"transactionHash,omitempty" validate:"omitempty,eth_hash"`
	AmountDisplay   string `json:"amountDisplay,omitempty"`
}

// CreateTip records a tip from a user to a video's creator.
func (h *TransactionHandler) CreateTip(c *gin.Context) {
	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	transaction, err := h.ledgerService.Tip(req.FromUserID, req.VideoID, services.TipRequest{
		Amount:          req.TransactionData.Amount,
		PaymentMethod:   paymentMethod(req.TransactionData.PaymentMethod),
		TransactionHash: req.TransactionData.TransactionHash,
		AmountDisplay:   req.TransactionData.AmountDisplay,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"transaction": transaction,
	})
}

type refundRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// Refund reverses a completed unlock or tip entry.
func (h *TransactionHandler) Refund(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction id", nil)
		return
	}

	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	refund, err := h.ledgerService.Refund(transactionID, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"refund": refund,
	})
}
