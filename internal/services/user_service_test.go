// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/clipcoin/clipcoin-backend/internal/models"
)

type UserServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	users  *UserService
	ledger *LedgerService
}

func (suite *UserServiceTestSuite) SetupTest() {
	cfg := testConfig()
	suite.db = openTestDB(suite.T())
	suite.users = NewUserService(suite.db, cfg)
	suite.ledger = NewLedgerService(suite.db, cfg)
}

func (suite *UserServiceTestSuite) TestGetOrCreateNormalizesWallet() {
	checksummed := "0xABCDEFabcdefABCDEFabcdefABCDEFabcdefABCD"

	user, isNew, err := suite.users.GetOrCreate(checksummed, CreateUserRequest{})
	suite.Require().NoError(err)
	suite.True(isNew)
	suite.Equal("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", user.WalletAddress)
	suite.Equal(int64(0), user.ViewCredits)

	// The lowercase form resolves to the same account, not a new one.
	again, isNew, err := suite.users.GetOrCreate("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", CreateUserRequest{})
	suite.Require().NoError(err)
	suite.False(isNew)
	suite.Equal(user.ID, again.ID)
}

func (suite *UserServiceTestSuite) TestGetByWalletNotFound() {
	_, err := suite.users.GetByWallet("0x9999999999999999999999999999999999999999")
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *UserServiceTestSuite) TestProfileCarriesWatchedAndUnlockedSets() {
	creator, _, err := suite.users.GetOrCreate("0x1111111111111111111111111111111111111111", CreateUserRequest{})
	suite.Require().NoError(err)
	viewer, _, err := suite.users.GetOrCreate("0x2222222222222222222222222222222222222222", CreateUserRequest{})
	suite.Require().NoError(err)

	video := &models.Video{CreatorID: creator.ID, Title: "t", Price: 100000, IsActive: true}
	suite.Require().NoError(suite.db.Create(video).Error)

	_, err = suite.ledger.AddCredits(viewer.WalletAddress, 1)
	suite.Require().NoError(err)
	_, err = suite.ledger.DeductViewCredit(viewer.WalletAddress, video.ID)
	suite.Require().NoError(err)
	_, err = suite.ledger.UnlockVideo(viewer.ID, video.ID, UnlockProof{
		TransactionHash: testHashB,
		PaymentMethod:   models.PaymentMethodCrypto,
		Amount:          100000,
	})
	suite.Require().NoError(err)

	profile, err := suite.users.GetByWallet(viewer.WalletAddress)
	suite.Require().NoError(err)
	suite.Len(profile.VideosWatched, 1)
	suite.Len(profile.VideosUnlocked, 1)
	suite.Equal(video.ID, profile.VideosWatched[0])
	suite.Equal(video.ID, profile.VideosUnlocked[0])
}

func (suite *UserServiceTestSuite) TestHasUnlocked() {
	creator, _, err := suite.users.GetOrCreate("0x1111111111111111111111111111111111111111", CreateUserRequest{})
	suite.Require().NoError(err)
	viewer, _, err := suite.users.GetOrCreate("0x2222222222222222222222222222222222222222", CreateUserRequest{})
	suite.Require().NoError(err)

	video := &models.Video{CreatorID: creator.ID, Title: "t", Price: 100000, IsActive: true}
	suite.Require().NoError(suite.db.Create(video).Error)

	unlocked, err := suite.users.HasUnlocked(viewer.ID, video.ID)
	suite.Require().NoError(err)
	suite.False(unlocked)

	_, err = suite.ledger.UnlockVideo(viewer.ID, video.ID, UnlockProof{
		TransactionHash: testHashA,
		PaymentMethod:   models.PaymentMethodCrypto,
		Amount:          100000,
	})
	suite.Require().NoError(err)

	unlocked, err = suite.users.HasUnlocked(viewer.ID, video.ID)
	suite.Require().NoError(err)
	suite.True(unlocked)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
