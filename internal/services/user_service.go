// internal/services/user_service.go
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
)

type UserService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{db: db, cfg: cfg}
}

type CreateUserRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,wallet_addr"`
	Username      string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL     string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// UserProfile is the public shape of a user: the stored row plus the derived
// watched/unlocked sets, which live in join tables rather than on the row.
type UserProfile struct {
	models.User
	VideosWatched  []uuid.UUID `json:"videosWatched"`
	VideosUnlocked []uuid.UUID `json:"videosUnlocked"`
}

// GetOrCreate resolves a wallet address to a user, creating the row on first
// contact. The wallet is the identity key and is always stored lowercase, so
// checksum-cased and lowercase forms of the same address resolve to one
// account. Creation is race-safe: concurrent first contacts collapse onto
// the unique wallet index.
func (s *UserService) GetOrCreate(walletAddress string, req CreateUserRequest) (*models.User, bool, error) {
	wallet := models.NormalizeWallet(walletAddress)

	var user models.User
	err := s.db.First(&user, "wallet_address = ?", wallet).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	user = models.User{
		WalletAddress: wallet,
		Username:      req.Username,
		AvatarURL:     req.AvatarURL,
		ViewCredits:   0,
		IsActive:      true,
		Status:        models.UserStatusActive,
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost the creation race; the winner's row is ours.
		if err := s.db.First(&user, "wallet_address = ?", wallet).Error; err != nil {
			return nil, false, fmt.Errorf("failed to load user after conflict: %w", err)
		}
		return &user, false, nil
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"wallet":  wallet,
	}).Info("User created")

	return &user, true, nil
}

// GetByWallet returns a user's public profile, including the derived
// watched and unlocked video-id sets.
func (s *UserService) GetByWallet(walletAddress string) (*UserProfile, error) {
	wallet := models.NormalizeWallet(walletAddress)

	var user models.User
	if err := s.db.First(&user, "wallet_address = ?", wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile := &UserProfile{
		User:           user,
		VideosWatched:  []uuid.UUID{},
		VideosUnlocked: []uuid.UUID{},
	}

	if err := s.db.Model(&models.VideoWatch{}).
		Where("user_id = ?", user.ID).
		Pluck("video_id", &profile.VideosWatched).Error; err != nil {
		return nil, fmt.Errorf("failed to load watched videos: %w", err)
	}

	if err := s.db.Model(&models.VideoUnlock{}).
		Where("user_id = ?", user.ID).
		Pluck("video_id", &profile.VideosUnlocked).Error; err != nil {
		return nil, fmt.Errorf("failed to load unlocked videos: %w", err)
	}

	return profile, nil
}

// GetByID loads a user by primary key.
func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// HasUnlocked reports whether the user holds a permanent unlock for the video.
func (s *UserService) HasUnlocked(userID, videoID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.VideoUnlock{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check unlock: %w", err)
	}
	return count > 0, nil
}

type UpdateProfileRequest struct {
	Username  string       `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	AvatarURL string       `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	Profile   models.JSONB `json:"profile,omitempty"`
}

// UpdateProfile changes display fields only. Balances and counters are
// ledger-owned and cannot be set here.
func (s *UserService) UpdateProfile(userID uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if req.Profile != nil {
		updates["profile_data"] = req.Profile
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return user, nil
}
