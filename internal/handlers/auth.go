// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

type AuthHandler struct {
	userService *services.UserService
	cfg         *config.Config
}

func NewAuthHandler(userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg}
}

type connectRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_addr"`
	Username      string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL     string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// Connect resolves a wallet to an account (creating one on first contact)
// and issues a session token. Signature verification is the wallet client's
// concern, not the ledger's.
func (h *AuthHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	user, isNew, err := h.userService.GetOrCreate(req.WalletAddress, services.CreateUserRequest{
		WalletAddress: req.WalletAddress,
		Username:      req.Username,
		AvatarURL:     req.AvatarURL,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.WalletAddress, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to issue token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token":     token,
		"user":      user,
		"isNewUser": isNew,
	})
}
