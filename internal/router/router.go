// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/handlers"
	"github.com/clipcoin/clipcoin-backend/internal/middleware"
	"github.com/clipcoin/clipcoin-backend/internal/services"
	"github.com/clipcoin/clipcoin-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	ledgerService := services.NewLedgerService(db, cfg)
	userService := services.NewUserService(db, cfg)
	videoService := services.NewVideoService(db, cfg, storageService)
	paymentService := services.NewPaymentService(db, cfg, ledgerService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService, ledgerService)
	videoHandler := handlers.NewVideoHandler(videoService, ledgerService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication
	auth := r.Group("/auth")
	{
		auth.POST("/connect", authHandler.Connect)
	}

	// Users
	users := r.Group("/users")
	{
		users.GET("/:wallet", userHandler.GetUser)
		users.GET("/:wallet/transactions", userHandler.GetTransactions)
		users.POST("/create", userHandler.CreateUser)
		users.POST("/add-credits", middleware.LedgerRateLimit(), userHandler.AddCredits)
	}

	// Videos
	videos := r.Group("/videos")
	{
		videos.GET("", middleware.OptionalAuth(), videoHandler.ListVideos)
		videos.GET("/:id", middleware.OptionalAuth(), videoHandler.GetVideo)
		videos.GET("/:id/playback", middleware.OptionalAuth(), videoHandler.Playback)
		videos.POST("", middleware.AuthRequired(), videoHandler.CreateVideo)
		videos.POST("/deduct-credit", middleware.LedgerRateLimit(), videoHandler.DeductCredit)
	}

	// Ledger writes
	r.POST("/video-unlock", middleware.LedgerRateLimit(), transactionHandler.Unlock)

	transactions := r.Group("/transactions")
	{
		transactions.POST("", middleware.LedgerRateLimit(), transactionHandler.CreateTip)
		transactions.POST("/:id/refund", middleware.AuthRequired(), transactionHandler.Refund)
	}

	// Fiat credit purchases
	payments := r.Group("/payments")
	payments.Use(middleware.PaymentRateLimit())
	{
		payments.GET("/credit-packs", paymentHandler.ListCreditPacks)
		payments.POST("/intent", middleware.AuthRequired(), paymentHandler.CreateCreditIntent)
		payments.POST("/confirm", paymentHandler.ConfirmCreditPurchase)
	}

	return r
}
