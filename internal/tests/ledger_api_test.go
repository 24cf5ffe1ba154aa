// internal/tests/ledger_api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/handlers"
	"github.com/clipcoin/clipcoin-backend/internal/models"
	"github.com/clipcoin/clipcoin-backend/internal/services"
)

const (
	walletA  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	proofOne = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

type LedgerAPITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *LedgerAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", suite.T().Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Transaction{},
		&models.VideoWatch{},
		&models.VideoUnlock{},
	))
	suite.db = db

	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			UnlockPrice:      100000,
			TipAmount:        100000,
			PerViewAmount:    100000,
			BasePaySurcharge: 0,
			AmountDecimals:   6,
		},
	}

	storage, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)
	ledgerService := services.NewLedgerService(db, cfg)
	userService := services.NewUserService(db, cfg)
	videoService := services.NewVideoService(db, cfg, storage)

	userHandler := handlers.NewUserHandler(userService, ledgerService)
	videoHandler := handlers.NewVideoHandler(videoService, ledgerService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)

	r := gin.New()
	r.GET("/users/:wallet", userHandler.GetUser)
	r.POST("/users/create", userHandler.CreateUser)
	r.POST("/users/add-credits", userHandler.AddCredits)
	r.GET("/videos", videoHandler.ListVideos)
	r.GET("/videos/:id", videoHandler.GetVideo)
	r.POST("/videos/deduct-credit", videoHandler.DeductCredit)
	r.POST("/video-unlock", transactionHandler.Unlock)
	r.POST("/transactions", transactionHandler.CreateTip)
	suite.router = r
}

func (suite *LedgerAPITestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerAPITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *LedgerAPITestSuite) createUserVia(wallet string) map[string]interface{} {
	w := suite.request("POST", "/users/create", gin.H{"walletAddress": wallet})
	suite.Require().Equal(http.StatusOK, w.Code)
	return suite.decode(w)
}

func (suite *LedgerAPITestSuite) seedVideo(creatorWallet string, isFree bool) *models.Video {
	creator := &models.User{
		WalletAddress: models.NormalizeWallet(creatorWallet),
		IsActive:      true,
		Status:        models.UserStatusActive,
	}
	suite.Require().NoError(suite.db.Create(creator).Error)

	video := &models.Video{
		CreatorID: creator.ID,
		Title:     "api test video",
		IsFree:    isFree,
		IsActive:  true,
	}
	if !isFree {
		video.Price = 100000
	}
	suite.Require().NoError(suite.db.Create(video).Error)
	return video
}

func (suite *LedgerAPITestSuite) TestCreateUserReportsIsNewUser() {
	response := suite.createUserVia(walletA)
	suite.True(response["success"].(bool))
	suite.True(response["isNewUser"].(bool))

	response = suite.createUserVia(walletA)
	suite.True(response["success"].(bool))
	suite.False(response["isNewUser"].(bool))
}

func (suite *LedgerAPITestSuite) TestCreateUserRejectsMissingWallet() {
	w := suite.request("POST", "/users/create", gin.H{})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(suite.decode(w)["success"].(bool))
}

func (suite *LedgerAPITestSuite) TestGetUserNotFound() {
	w := suite.request("GET", "/users/"+walletB, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.False(suite.decode(w)["success"].(bool))
}

func (suite *LedgerAPITestSuite) TestAddCreditsFlow() {
	suite.createUserVia(walletA)

	w := suite.request("POST", "/users/add-credits", gin.H{
		"walletAddress": walletA,
		"creditsToAdd":  10,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	data := suite.decode(w)["data"].(map[string]interface{})
	suite.Equal(float64(10), data["viewCredits"])
	suite.Equal(float64(10), data["creditsAdded"])
}

func (suite *LedgerAPITestSuite) TestDeductCreditInsufficient() {
	suite.createUserVia(walletA)
	video := suite.seedVideo(walletB, false)

	w := suite.request("POST", "/videos/deduct-credit", gin.H{
		"walletAddress": walletA,
		"videoId":       video.ID,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	suite.False(response["success"].(bool))
	errObj := response["error"].(map[string]interface{})
	suite.Equal("INSUFFICIENT_CREDITS", errObj["code"])
}

func (suite *LedgerAPITestSuite) TestDeductCreditHappyPath() {
	suite.createUserVia(walletA)
	video := suite.seedVideo(walletB, false)

	w := suite.request("POST", "/users/add-credits", gin.H{
		"walletAddress": walletA,
		"creditsToAdd":  3,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("POST", "/videos/deduct-credit", gin.H{
		"walletAddress": walletA,
		"videoId":       video.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	response := suite.decode(w)
	suite.True(response["success"].(bool))
	suite.Equal(float64(2), response["remainingCredits"])
	suite.NotNil(response["transaction"])

	// Second watch of the same video is a no-op at the same balance.
	w = suite.request("POST", "/videos/deduct-credit", gin.H{
		"walletAddress": walletA,
		"videoId":       video.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(2), suite.decode(w)["remainingCredits"])
}

func (suite *LedgerAPITestSuite) TestUnlockAndReplay() {
	response := suite.createUserVia(walletA)
	userID := response["data"].(map[string]interface{})["id"].(string)
	video := suite.seedVideo(walletB, false)

	body := gin.H{
		"userId":          userID,
		"videoId":         video.ID,
		"transactionHash": proofOne,
		"paymentMethod":   "crypto",
		"amount":          100000,
	}

	w := suite.request("POST", "/video-unlock", body)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(suite.decode(w)["success"].(bool))

	// Replay fails and the unlock counter stays at one.
	w = suite.request("POST", "/video-unlock", body)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(suite.decode(w)["success"].(bool))

	var video2 models.Video
	suite.Require().NoError(suite.db.First(&video2, "id = ?", video.ID).Error)
	suite.Equal(int64(1), video2.TotalUnlocks)
}

func (suite *LedgerAPITestSuite) TestUnlockBadAmount() {
	response := suite.createUserVia(walletA)
	userID := response["data"].(map[string]interface{})["id"].(string)
	video := suite.seedVideo(walletB, false)

	w := suite.request("POST", "/video-unlock", gin.H{
		"userId":          userID,
		"videoId":         video.ID,
		"transactionHash": proofOne,
		"paymentMethod":   "crypto",
		"amount":          42,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	errObj := suite.decode(w)["error"].(map[string]interface{})
	suite.Equal("INVALID_AMOUNT", errObj["code"])
}

func (suite *LedgerAPITestSuite) TestTipEndpoint() {
	response := suite.createUserVia(walletA)
	userID := response["data"].(map[string]interface{})["id"].(string)
	video := suite.seedVideo(walletB, false)

	w := suite.request("POST", "/transactions", gin.H{
		"fromUserId": userID,
		"videoId":    video.ID,
		"transactionData": gin.H{
			"amount":        100000,
			"paymentMethod": "crypto",
		},
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	data := suite.decode(w)["data"].(map[string]interface{})
	suite.NotNil(data["transaction"])
}

func (suite *LedgerAPITestSuite) TestListVideos() {
	suite.seedVideo(walletB, false)

	w := suite.request("GET", "/videos", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	response := suite.decode(w)
	suite.True(response["success"].(bool))
	suite.Len(response["data"].([]interface{}), 1)
}

func TestLedgerAPISuite(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}
