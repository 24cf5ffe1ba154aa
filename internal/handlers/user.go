// internal/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

type UserHandler struct {
	userService   *services.UserService
	ledgerService *services.LedgerService
}

func NewUserHandler(userService *services.UserService, ledgerService *services.LedgerService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// GetUser returns a user's public profile by wallet address.
func (h *UserHandler) GetUser(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet == "" {
		utils.BadRequestResponse(c, "Wallet address is required", nil)
		return
	}

	profile, err := h.userService.GetByWallet(wallet)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

type createUserRequest struct {
	WalletAddress string                 `json:"walletAddress" validate:"required,wallet_addr"`
	UserData      *createUserDataPayload `json:"userData,omitempty"`
}

type createUserDataPayload struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// CreateUser resolves or creates the account for a wallet. The response
// carries isNewUser so clients can branch on first contact.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	create := services.CreateUserRequest{WalletAddress: req.WalletAddress}
	if req.UserData != nil {
		create.Username = req.UserData.Username
		create.AvatarURL = req.UserData.AvatarURL
	}

	user, isNew, err := h.userService.GetOrCreate(req.WalletAddress, create)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      user,
		"isNewUser": isNew,
	})
}

type addCreditsRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_addr"`
	CreditsToAdd  int64  `json:"creditsToAdd" validate:"required"`
}

// AddCredits tops up a user's view-credit balance.
func (h *UserHandler) AddCredits(c *gin.Context) {
	var req addCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	user, err := h.ledgerService.AddCredits(req.WalletAddress, req.CreditsToAdd)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"viewCredits":  user.ViewCredits,
		"creditsAdded": req.CreditsToAdd,
	})
}

// GetTransactions returns a user's ledger history, newest first.
func (h *UserHandler) GetTransactions(c *gin.Context) {
	wallet := c.Param("wallet")
	params := utils.GetPaginationParams(c)

	transactions, total, err := h.ledgerService.GetHistory(wallet, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, params))
}
