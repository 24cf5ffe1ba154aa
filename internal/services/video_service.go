// internal/services/video_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/models"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

type VideoService struct {
	db      *gorm.DB
	cfg     *config.Config
	storage *StorageService
}

func NewVideoService(db *gorm.DB, cfg *config.Config, storage *StorageService) *VideoService {
	return &VideoService{db: db, cfg: cfg, storage: storage}
}

type VideoFilters struct {
	Category string
	Featured *bool
	Creator  *uuid.UUID
}

// VideoView is a video as seen by a particular caller. IsUnlocked is always
// true for free videos and for anonymous listings it is simply false.
type VideoView struct {
	models.Video
	IsUnlocked bool `json:"isUnlocked"`
}

type PlaybackGrant struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// List returns active videos matching the filters, paginated.
func (s *VideoService) List(filters VideoFilters, params utils.PaginationParams, viewerID *uuid.UUID) ([]VideoView, int64, error) {
	query := s.db.Model(&models.Video{}).Where("is_active = ?", true)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}
	if filters.Creator != nil {
		query = query.Where("creator_id = ?", *filters.Creator)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.Video
	query = utils.ApplySort(query, params, []string{"created_at", "total_views", "total_unlocks", "price"})
	if err := utils.ApplyPagination(query, params).
		Preload("Creator").
		Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch videos: %w", err)
	}

	unlocked := map[uuid.UUID]bool{}
	if viewerID != nil && len(videos) > 0 {
		ids := make([]uuid.UUID, len(videos))
		for i, v := range videos {
			ids[i] = v.ID
		}
		var unlockedIDs []uuid.UUID
		if err := s.db.Model(&models.VideoUnlock{}).
			Where("user_id = ? AND video_id IN ?", *viewerID, ids).
			Pluck("video_id", &unlockedIDs).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to load unlocks: %w", err)
		}
		for _, id := range unlockedIDs {
			unlocked[id] = true
		}
	}

	views := make([]VideoView, len(videos))
	for i, v := range videos {
		views[i] = VideoView{
			Video:      v,
			IsUnlocked: v.IsFree || unlocked[v.ID],
		}
	}

	return views, total, nil
}

// Get returns a single video with the caller's unlock state resolved.
func (s *VideoService) Get(videoID uuid.UUID, viewerID *uuid.UUID) (*VideoView, error) {
	var video models.Video
	if err := s.db.Preload("Creator").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to load video: %w", err)
	}

	view := &VideoView{Video: video, IsUnlocked: video.IsFree}

	if viewerID != nil && !view.IsUnlocked {
		var count int64
		if err := s.db.Model(&models.VideoUnlock{}).
			Where("user_id = ? AND video_id = ?", *viewerID, videoID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check unlock: %w", err)
		}
		view.IsUnlocked = count > 0
	}

	return view, nil
}

// Playback grants a presigned playback URL. Paid videos require an unlock;
// free videos play for anyone.
func (s *VideoService) Playback(videoID uuid.UUID, viewerID *uuid.UUID) (*PlaybackGrant, error) {
	view, err := s.Get(videoID, viewerID)
	if err != nil {
		return nil, err
	}

	if !view.IsUnlocked {
		return nil, ErrVideoLocked
	}

	url, expiresAt, err := s.storage.PlaybackURL(view.PlaybackKey)
	if err != nil {
		return nil, err
	}

	return &PlaybackGrant{URL: url, ExpiresAt: expiresAt}, nil
}

type CreateVideoRequest struct {
	Title        string   `json:"title" validate:"required,min=2,max=255"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category     string   `json:"category,omitempty" validate:"omitempty,max=50"`
	Tags         []string `json:"tags,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	PlaybackKey  string   `json:"playbackKey" validate:"required"`
	Duration     int      `json:"duration,omitempty" validate:"omitempty,min=0"`
	IsFree       bool     `json:"isFree"`
}

// Create registers a new video for a creator. Price comes from the ledger
// configuration, not the request: every paid video costs the same to unlock.
func (s *VideoService) Create(creatorID uuid.UUID, req CreateVideoRequest) (*models.Video, error) {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	video := &models.Video{
		CreatorID:    creator.ID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         pq.StringArray(req.Tags),
		ThumbnailURL: req.ThumbnailURL,
		PlaybackKey:  req.PlaybackKey,
		Duration:     req.Duration,
		IsFree:       req.IsFree,
		IsActive:     true,
	}
	if !req.IsFree {
		video.Price = s.cfg.Ledger.UnlockPrice
	}

	if err := s.db.Create(video).Error; err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"video_id":   video.ID,
		"creator_id": creator.ID,
		"is_free":    video.IsFree,
	}).Info("Video created")

	return video, nil
}
