// internal/services/video_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/clipcoin/clipcoin-backend/internal/models"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

type VideoServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	videos  *VideoService
	ledger  *LedgerService
	creator *models.User
}

func (suite *VideoServiceTestSuite) SetupTest() {
	cfg := testConfig()
	suite.db = openTestDB(suite.T())

	storage, err := NewStorageService(cfg)
	suite.Require().NoError(err)

	suite.videos = NewVideoService(suite.db, cfg, storage)
	suite.ledger = NewLedgerService(suite.db, cfg)

	suite.creator = &models.User{
		WalletAddress: "0x1111111111111111111111111111111111111111",
		IsActive:      true,
		Status:        models.UserStatusActive,
	}
	suite.Require().NoError(suite.db.Create(suite.creator).Error)
}

func (suite *VideoServiceTestSuite) addVideo(category string, featured, free bool) *models.Video {
	video := &models.Video{
		CreatorID:   suite.creator.ID,
		Title:       "test video",
		Category:    category,
		PlaybackKey: "videos/test.m3u8",
		IsFeatured:  featured,
		IsFree:      free,
		IsActive:    true,
	}
	if !free {
		video.Price = 100000
	}
	suite.Require().NoError(suite.db.Create(video).Error)
	return video
}

func (suite *VideoServiceTestSuite) TestListFilters() {
	suite.addVideo("music", false, false)
	suite.addVideo("music", true, false)
	suite.addVideo("comedy", false, true)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	all, total, err := suite.videos.List(VideoFilters{}, params, nil)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(all, 3)

	music, total, err := suite.videos.List(VideoFilters{Category: "music"}, params, nil)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(music, 2)

	featured := true
	hot, total, err := suite.videos.List(VideoFilters{Featured: &featured}, params, nil)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(hot, 1)
}

func (suite *VideoServiceTestSuite) TestListMarksUnlocked() {
	paid := suite.addVideo("music", false, false)
	free := suite.addVideo("music", false, true)

	buyer := &models.User{
		WalletAddress: "0x2222222222222222222222222222222222222222",
		IsActive:      true,
		Status:        models.UserStatusActive,
	}
	suite.Require().NoError(suite.db.Create(buyer).Error)

	_, err := suite.ledger.UnlockVideo(buyer.ID, paid.ID, UnlockProof{
		TransactionHash: testHashA,
		PaymentMethod:   models.PaymentMethodCrypto,
		Amount:          100000,
	})
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
	views, _, err := suite.videos.List(VideoFilters{}, params, &buyer.ID)
	suite.Require().NoError(err)

	byID := map[uuid.UUID]VideoView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	suite.True(byID[paid.ID].IsUnlocked)
	suite.True(byID[free.ID].IsUnlocked, "free videos are always unlocked")
}

func (suite *VideoServiceTestSuite) TestGetAnonymous() {
	paid := suite.addVideo("music", false, false)

	view, err := suite.videos.Get(paid.ID, nil)
	suite.Require().NoError(err)
	suite.False(view.IsUnlocked)

	_, err = suite.videos.Get(uuid.New(), nil)
	suite.ErrorIs(err, ErrVideoNotFound)
}

func (suite *VideoServiceTestSuite) TestPlaybackGating() {
	paid := suite.addVideo("music", false, false)
	free := suite.addVideo("music", false, true)

	// Anyone can play a free video.
	grant, err := suite.videos.Playback(free.ID, nil)
	suite.Require().NoError(err)
	suite.NotEmpty(grant.URL)

	// A paid video without an unlock is refused.
	_, err = suite.videos.Playback(paid.ID, nil)
	suite.ErrorIs(err, ErrVideoLocked)

	buyer := &models.User{
		WalletAddress: "0x2222222222222222222222222222222222222222",
		IsActive:      true,
		Status:        models.UserStatusActive,
	}
	suite.Require().NoError(suite.db.Create(buyer).Error)

	_, err = suite.ledger.UnlockVideo(buyer.ID, paid.ID, UnlockProof{
		TransactionHash: testHashB,
		PaymentMethod:   models.PaymentMethodCrypto,
		Amount:          100000,
	})
	suite.Require().NoError(err)

	grant, err = suite.videos.Playback(paid.ID, &buyer.ID)
	suite.Require().NoError(err)
	suite.NotEmpty(grant.URL)
}

func (suite *VideoServiceTestSuite) TestCreateAppliesConfiguredPrice() {
	video, err := suite.videos.Create(suite.creator.ID, CreateVideoRequest{
		Title:       "new upload",
		PlaybackKey: "videos/new.m3u8",
	})
	suite.Require().NoError(err)
	suite.Equal(int64(100000), video.Price)
	suite.False(video.IsFree)

	free, err := suite.videos.Create(suite.creator.ID, CreateVideoRequest{
		Title:       "free upload",
		PlaybackKey: "videos/free.m3u8",
		IsFree:      true,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(0), free.Price)
}

func TestVideoServiceSuite(t *testing.T) {
	suite.Run(t, new(VideoServiceTestSuite))
}
