// internal/models/user.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

type User struct {
	BaseModel
	WalletAddress   string     `json:"wallet_address" gorm:"uniqueIndex;size:64;not null"`
	Username        string     `json:"username" gorm:"size:50"`
	AvatarURL       string     `json:"avatar_url" gorm:"size:512"`
	ViewCredits     int64      `json:"view_credits" gorm:"not null;default:0"`
	TotalTipsSpent  int64      `json:"total_tips_spent" gorm:"not null;default:0"`
	TotalTipsEarned int64      `json:"total_tips_earned" gorm:"not null;default:0"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData     JSONB      `json:"profile_data,omitempty" gorm:"type:jsonb"`

	// Relationships
	Videos       []Video       `json:"videos,omitempty" gorm:"foreignKey:CreatorID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
}

// NormalizeWallet lowercases a wallet address. Users are keyed by the
// lowercase form; every boundary must normalize before lookups.
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// VideoWatch marks a video as watched by a user exactly once. The composite
// unique index is the idempotence guard for view-credit deduction.
type VideoWatch struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_video_watches_user_video"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:uuid;not null;uniqueIndex:idx_video_watches_user_video"`
	CreatedAt int64     `json:"created_at" gorm:"autoCreateTime"`
}

// VideoUnlock marks a video as permanently unlocked by a user. The composite
// unique index enforces at-most-once unlock per user and video.
type VideoUnlock struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_video_unlocks_user_video"`
	VideoID       uuid.UUID `json:"video_id" gorm:"type:uuid;not null;uniqueIndex:idx_video_unlocks_user_video"`
	TransactionID uuid.UUID `json:"transaction_id" gorm:"type:uuid"`
	CreatedAt     int64     `json:"created_at" gorm:"autoCreateTime"`
}
