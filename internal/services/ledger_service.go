// internal/services/ledger_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/models"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

// LedgerService is the only writer of view credits, watch/unlock sets, and
// the earnings accumulators on users and videos. Every operation runs inside
// a single database transaction, and every precondition that can race under
// concurrent requests is enforced by the database itself: conditional
// updates for the credit balance, composite unique indexes for the watch and
// unlock sets, and the unique transaction-hash index for double-spend
// prevention. A failed step rolls the whole operation back, so counters can
// never drift from the transaction log.
type LedgerService struct {
	db      *gorm.DB
	pricing *PricingPolicy
	cfg     config.LedgerConfig
}

func NewLedgerService(db *gorm.DB, cfg *config.Config) *LedgerService {
	return &LedgerService{
		db:      db,
		pricing: NewPricingPolicy(cfg.Ledger),
		cfg:     cfg.Ledger,
	}
}

// Pricing exposes the policy for callers that only need a quote.
func (s *LedgerService) Pricing() *PricingPolicy {
	return s.pricing
}

type DeductResult struct {
	RemainingCredits int64               `json:"remainingCredits"`
	AlreadyWatched   bool                `json:"alreadyWatched"`
	Transaction      *models.Transaction `json:"transaction,omitempty"`
}

type UnlockProof struct {
	TransactionHash string               `json:"transactionHash" validate:"required,eth_hash"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=crypto basepay credit farcaster"`
	Amount          int64                `json:"amount" validate:"required,min=1"`
	AmountDisplay   string               `json:"amountDisplay,omitempty"`
}

type UnlockResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Video       *models.Video       `json:"video"`
	User        *models.User        `json:"user"`
}

type TipRequest struct {
	Amount          int64                `json:"amount" validate:"required,min=1"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=crypto basepay credit farcaster"`
	TransactionHash string               `json:"transactionHash,omitempty" validate:"omitempty,eth_hash"`
	AmountDisplay   string               `json:"amountDisplay,omitempty"`
}

// DeductViewCredit charges one view credit for watching a video. Watching is
// idempotent per user and video: a repeat call is a successful no-op that
// leaves the balance unchanged.
func (s *LedgerService) DeductViewCredit(walletAddress string, videoID uuid.UUID) (*DeductResult, error) {
	wallet := models.NormalizeWallet(walletAddress)
	result := &DeductResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.First(&video, "id = ?", videoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVideoNotFound
			}
			return fmt.Errorf("failed to load video: %w", err)
		}

		var user models.User
		if err := tx.First(&user, "wallet_address = ?", wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		// The composite unique index makes the watch set the idempotence
		// guard: a second insert for the same (user, video) affects no rows.
		watch := models.VideoWatch{UserID: user.ID, VideoID: video.ID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&watch)
		if res.Error != nil {
			return fmt.Errorf("failed to record watch: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			result.AlreadyWatched = true
			result.RemainingCredits = user.ViewCredits
			return nil
		}

		// Conditional decrement: the WHERE clause keeps the balance from
		// ever going below zero, no matter how many requests race here.
		res = tx.Model(&models.User{}).
			Where("id = ? AND view_credits > 0", user.ID).
			UpdateColumn("view_credits", gorm.Expr("view_credits - 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to deduct credit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		record := &models.Transaction{
			Type:          models.TransactionTypeView,
			UserID:        user.ID,
			VideoID:       video.ID,
			PaymentMethod: models.PaymentMethodCredit,
			Status:        models.TransactionStatusCompleted,
		}

		if video.IsFree {
			record.Amount = 0
			record.AmountDisplay = "FREE"
			record.Metadata = models.JSONB{"isFree": true}
		} else {
			quote := s.pricing.Quote(s.cfg.PerViewAmount, models.PaymentMethodCredit)
			record.Amount = quote.FinalAmount
			record.AmountDisplay = s.pricing.FormatAmount(quote.FinalAmount)
			record.Metadata = models.JSONB{
				"basePayAmount":  quote.BasePayAmount,
				"basePayApplied": quote.BasePayApplied,
			}
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record view transaction: %w", err)
		}

		if err := s.incrementVideoCounters(tx, video.ID, map[string]interface{}{
			"total_views": gorm.Expr("total_views + 1"),
		}); err != nil {
			return err
		}

		if !video.IsFree {
			if err := s.creditEarnings(tx, video.ID, video.CreatorID, record.Amount); err != nil {
				return err
			}
		}

		result.RemainingCredits = user.ViewCredits - 1
		result.Transaction = record
		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wallet":    wallet,
		"video_id":  videoID,
		"remaining": result.RemainingCredits,
		"noop":      result.AlreadyWatched,
	}).Info("View credit deduction processed")

	return result, nil
}

// UnlockVideo grants permanent access to a paid video against a payment
// proof. Preconditions are checked in order and the first failure wins.
func (s *LedgerService) UnlockVideo(userID, videoID uuid.UUID, proof UnlockProof) (*UnlockResult, error) {
	result := &UnlockResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.First(&video, "id = ?", videoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVideoNotFound
			}
			return fmt.Errorf("failed to load video: %w", err)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		// Unlock set first: at most one unlock per (user, video), enforced
		// by the composite unique index.
		unlock := models.VideoUnlock{UserID: user.ID, VideoID: video.ID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&unlock)
		if res.Error != nil {
			return fmt.Errorf("failed to record unlock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyUnlocked
		}

		// Double-spend guard: the proof hash must never have been seen.
		var hashCount int64
		if err := tx.Model(&models.Transaction{}).
			Where("transaction_hash = ?", proof.TransactionHash).
			Count(&hashCount).Error; err != nil {
			return fmt.Errorf("failed to check transaction hash: %w", err)
		}
		if hashCount > 0 {
			return ErrDuplicateTransaction
		}

		if proof.Amount != s.cfg.UnlockPrice {
			return ErrInvalidAmount
		}

		quote := s.pricing.Quote(proof.Amount, proof.PaymentMethod)

		amountDisplay := proof.AmountDisplay
		if amountDisplay == "" {
			amountDisplay = s.pricing.FormatAmount(quote.FinalAmount)
		}

		hash := proof.TransactionHash
		record := &models.Transaction{
			Type:            models.TransactionTypeUnlock,
			UserID:          user.ID,
			VideoID:         video.ID,
			Amount:          quote.FinalAmount,
			AmountDisplay:   amountDisplay,
			PaymentMethod:   proof.PaymentMethod,
			TransactionHash: &hash,
			Status:          models.TransactionStatusCompleted,
			Metadata: models.JSONB{
				"basePayAmount":  quote.BasePayAmount,
				"basePayApplied": quote.BasePayApplied,
			},
		}

		if err := tx.Create(record).Error; err != nil {
			// The unique index closes the race between the count above and
			// this insert.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTransaction
			}
			return fmt.Errorf("failed to record unlock transaction: %w", err)
		}

		if err := tx.Model(&models.VideoUnlock{}).
			Where("user_id = ? AND video_id = ?", user.ID, video.ID).
			UpdateColumn("transaction_id", record.ID).Error; err != nil {
			return fmt.Errorf("failed to link unlock to transaction: %w", err)
		}

		if err := s.incrementVideoCounters(tx, video.ID, map[string]interface{}{
			"total_unlocks":     gorm.Expr("total_unlocks + 1"),
			"total_tips_earned": gorm.Expr("total_tips_earned + ?", record.Amount),
		}); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", video.CreatorID).
			UpdateColumn("total_tips_earned", gorm.Expr("total_tips_earned + ?", record.Amount)).Error; err != nil {
			return fmt.Errorf("failed to credit creator earnings: %w", err)
		}

		// Re-read so the response reflects the committed counters.
		if err := tx.First(&video, "id = ?", video.ID).Error; err != nil {
			return fmt.Errorf("failed to reload video: %w", err)
		}
		if err := tx.First(&user, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to reload user: %w", err)
		}

		result.Transaction = record
		result.Video = &video
		result.User = &user
		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"video_id": videoID,
		"amount":   result.Transaction.Amount,
		"hash":     proof.TransactionHash,
	}).Info("Video unlocked")

	return result, nil
}

// Tip records a repeatable payment from a user to a video's creator.
func (s *LedgerService) Tip(fromUserID, videoID uuid.UUID, req TipRequest) (*models.Transaction, error) {
	var record *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.First(&video, "id = ?", videoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVideoNotFound
			}
			return fmt.Errorf("failed to load video: %w", err)
		}

		var fromUser models.User
		if err := tx.First(&fromUser, "id = ?", fromUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		var creator models.User
		if err := tx.First(&creator, "id = ?", video.CreatorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load creator: %w", err)
		}

		if req.Amount != s.cfg.TipAmount {
			return ErrInvalidAmount
		}

		quote := s.pricing.Quote(req.Amount, req.PaymentMethod)

		amountDisplay := req.AmountDisplay
		if amountDisplay == "" {
			amountDisplay = s.pricing.FormatAmount(quote.FinalAmount)
		}

		record = &models.Transaction{
			Type:          models.TransactionTypeTip,
			UserID:        fromUser.ID,
			VideoID:       video.ID,
			Amount:        quote.FinalAmount,
			AmountDisplay: amountDisplay,
			PaymentMethod: req.PaymentMethod,
			Status:        models.TransactionStatusCompleted,
			Metadata: models.JSONB{
				"basePayAmount":  quote.BasePayAmount,
				"basePayApplied": quote.BasePayApplied,
			},
		}
		if req.TransactionHash != "" {
			hash := req.TransactionHash
			record.TransactionHash = &hash
		}

		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateTransaction
			}
			return fmt.Errorf("failed to record tip transaction: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", fromUser.ID).
			UpdateColumn("total_tips_spent", gorm.Expr("total_tips_spent + ?", record.Amount)).Error; err != nil {
			return fmt.Errorf("failed to debit tipper: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", creator.ID).
			UpdateColumn("total_tips_earned", gorm.Expr("total_tips_earned + ?", record.Amount)).Error; err != nil {
			return fmt.Errorf("failed to credit creator earnings: %w", err)
		}

		if err := s.incrementVideoCounters(tx, video.ID, map[string]interface{}{
			"total_tips_earned": gorm.Expr("total_tips_earned + ?", record.Amount),
		}); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"from_user": fromUserID,
		"video_id":  videoID,
		"amount":    record.Amount,
	}).Info("Tip processed")

	return record, nil
}

// AddCredits is the only credit-increasing path. It is a single atomic
// increment and deliberately does not deduplicate: the caller confirms the
// off-ledger payment before invoking it.
func (s *LedgerService) AddCredits(walletAddress string, creditsToAdd int64) (*models.User, error) {
	if creditsToAdd <= 0 {
		return nil, ErrInvalidCreditAmount
	}

	wallet := models.NormalizeWallet(walletAddress)

	var user models.User
	if err := s.db.First(&user, "wallet_address = ?", wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumn("view_credits", gorm.Expr("view_credits + ?", creditsToAdd)).Error; err != nil {
		return nil, fmt.Errorf("failed to add credits: %w", err)
	}

	if err := s.db.First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"wallet":  wallet,
		"added":   creditsToAdd,
		"balance": user.ViewCredits,
	}).Info("Credits added")

	return &user, nil
}

// Refund reverses a completed unlock or tip. The unique index on the
// refunded-transaction reference guarantees at most one refund per entry.
// The unlock set stays append-only: a refund restores earnings, not access
// history.
func (s *LedgerService) Refund(transactionID uuid.UUID, reason string) (*models.Transaction, error) {
	var record *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var original models.Transaction
		if err := tx.First(&original, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		if original.Status != models.TransactionStatusCompleted {
			return ErrNotRefundable
		}
		if original.Type != models.TransactionTypeUnlock && original.Type != models.TransactionTypeTip {
			return ErrNotRefundable
		}

		originalID := original.ID
		record = &models.Transaction{
			Type:                  models.TransactionTypeRefund,
			UserID:                original.UserID,
			VideoID:               original.VideoID,
			Amount:                original.Amount,
			AmountDisplay:         original.AmountDisplay,
			PaymentMethod:         original.PaymentMethod,
			Status:                models.TransactionStatusCompleted,
			RefundedTransactionID: &originalID,
			Metadata:              models.JSONB{"reason": reason},
		}

		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrNotRefundable
			}
			return fmt.Errorf("failed to record refund: %w", err)
		}

		var video models.Video
		if err := tx.First(&video, "id = ?", original.VideoID).Error; err != nil {
			return fmt.Errorf("failed to load video: %w", err)
		}

		if err := s.incrementVideoCounters(tx, video.ID, map[string]interface{}{
			"total_tips_earned": gorm.Expr("total_tips_earned - ?", original.Amount),
		}); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", video.CreatorID).
			UpdateColumn("total_tips_earned", gorm.Expr("total_tips_earned - ?", original.Amount)).Error; err != nil {
			return fmt.Errorf("failed to reverse creator earnings: %w", err)
		}

		if original.Type == models.TransactionTypeTip {
			if err := tx.Model(&models.User{}).
				Where("id = ?", original.UserID).
				UpdateColumn("total_tips_spent", gorm.Expr("total_tips_spent - ?", original.Amount)).Error; err != nil {
				return fmt.Errorf("failed to reverse tip spend: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"refund_id":      record.ID,
		"reason":         reason,
	}).Info("Transaction refunded")

	return record, nil
}

// GetHistory returns a user's ledger entries, newest first.
func (s *LedgerService) GetHistory(walletAddress string, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	wallet := models.NormalizeWallet(walletAddress)

	var user models.User
	if err := s.db.First(&user, "wallet_address = ?", wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to load user: %w", err)
	}

	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	offset := (params.Page - 1) * params.Limit
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(params.Limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

func (s *LedgerService) incrementVideoCounters(tx *gorm.DB, videoID uuid.UUID, updates map[string]interface{}) error {
	if err := tx.Model(&models.Video{}).
		Where("id = ?", videoID).
		UpdateColumns(updates).Error; err != nil {
		return fmt.Errorf("failed to update video counters: %w", err)
	}
	return nil
}

// creditEarnings applies a paid view's amount to the video and its creator.
func (s *LedgerService) creditEarnings(tx *gorm.DB, videoID, creatorID uuid.UUID, amount int64) error {
	if err := s.incrementVideoCounters(tx, videoID, map[string]interface{}{
		"total_tips_earned": gorm.Expr("total_tips_earned + ?", amount),
	}); err != nil {
		return err
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", creatorID).
		UpdateColumn("total_tips_earned", gorm.Expr("total_tips_earned + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to credit creator earnings: %w", err)
	}

	return nil
}
