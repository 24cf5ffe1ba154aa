// internal/models/video.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Video struct {
	BaseModel
	CreatorID    uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null;index"`
	Title        string         `json:"title" gorm:"size:255;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Category     string         `json:"category" gorm:"size:50;index"`
	Tags         pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	ThumbnailURL string         `json:"thumbnail_url" gorm:"size:512"`
	PlaybackKey  string         `json:"-" gorm:"size:512"`
	Duration     int            `json:"duration"`

	// Price is in smallest currency units. Free videos still consume a view
	// credit but never produce creator earnings.
	Price  int64 `json:"price" gorm:"not null;default:0"`
	IsFree bool  `json:"is_free" gorm:"default:false"`

	IsFeatured bool `json:"is_featured" gorm:"default:false;index"`
	IsActive   bool `json:"is_active" gorm:"default:true"`

	// Denormalized counters, maintained only by the ledger service.
	TotalViews      int64 `json:"total_views" gorm:"not null;default:0"`
	TotalUnlocks    int64 `json:"total_unlocks" gorm:"not null;default:0"`
	TotalTipsEarned int64 `json:"total_tips_earned" gorm:"not null;default:0"`

	// Relationships
	Creator User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}
