// internal/handlers/video.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

type VideoHandler struct {
	videoService  *services.VideoService
	ledgerService *services.LedgerService
}

func NewVideoHandler(videoService *services.VideoService, ledgerService *services.LedgerService) *VideoHandler {
	return &VideoHandler{
		videoService:  videoService,
		ledgerService: ledgerService,
	}
}

// ListVideos returns active videos, filterable by category and featured
// flag. The viewer's unlock state is resolved from the optional session.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	// Legacy skip/limit query parameters take precedence over page/limit.
	if skip := c.Query("skip"); skip != "" {
		if skipVal, err := strconv.Atoi(skip); err == nil && skipVal >= 0 {
			params.Page = skipVal/params.Limit + 1
		}
	}

	filters := services.VideoFilters{Category: params.Category}
	if featured := c.Query("featured"); featured != "" {
		val := featured == "true" || featured == "1"
		filters.Featured = &val
	}

	viewerID := viewerFromContext(c)

	videos, total, err := h.videoService.List(filters, params, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(videos, total, params))
}

// GetVideo returns one video with isUnlocked resolved for the caller. The
// userId query parameter serves unauthenticated clients; a session token
// wins when both are present.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid video id", nil)
		return
	}

	viewerID := viewerFromContext(c)
	if viewerID == nil {
		if userID := c.Query("userId"); userID != "" {
			if parsed, err := uuid.Parse(userID); err == nil {
				viewerID = &parsed
			}
		}
	}

	video, err := h.videoService.Get(videoID, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, video)
}

type deductCreditRequest struct {
	WalletAddress string    `json:"walletAddress" validate:"required,wallet_addr"`
	VideoID       uuid.UUID `json:"videoId" validate:"required"`
}

// DeductCredit charges one view credit for a watch. Repeat watches of the
// same video are no-ops.
func (h *VideoHandler) DeductCredit(c *gin.Context) {
	var req deductCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	result, err := h.ledgerService.DeductViewCredit(req.WalletAddress, req.VideoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"remainingCredits": result.RemainingCredits,
		"transaction":      result.Transaction,
	})
}

// Playback issues a short-lived playback URL for an unlocked or free video.
func (h *VideoHandler) Playback(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid video id", nil)
		return
	}

	viewerID := viewerFromContext(c)

	grant, err := h.videoService.Playback(videoID, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, grant)
}

// CreateVideo registers a new video for the authenticated creator.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	creatorID := viewerFromContext(c)
	if creatorID == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	video, err := h.videoService.Create(*creatorID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, video)
}

// viewerFromContext extracts the authenticated user id, if any.
func viewerFromContext(c *gin.Context) *uuid.UUID {
	userIDStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}
