package router

import (
	"net/http"
	"time"

	"rabet/config"
	"rabet/internal/domain"
	"rabet/internal/handler"
	"rabet/internal/middleware"
	"rabet/internal/repository"
	"rabet/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)
	paymentRepo := repository.NewPaymentSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	walletSvc := service.NewWalletService(db, providerRepo, walletRepo, ledgerRepo, unlockRepo, requestRepo, paymentRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	providerHandler := handler.NewProviderHandler(providerRepo)
	requestHandler := handler.NewRequestHandler(requestRepo)
	leadHandler := handler.NewLeadHandler(walletSvc, providerRepo, requestRepo, unlockRepo, notifSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(providerRepo, walletRepo, unlockRepo, ledgerRepo, auditRepo, walletSvc, notifSvc)
	webhookHandler := handler.NewWebhookHandler(cfg.Payment, walletSvc, providerRepo, notifSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.POST("/providers/apply", authMw, middleware.RequireRole(domain.RoleProvider), providerHandler.Apply)
		api.GET("/providers/me", authMw, middleware.RequireRole(domain.RoleProvider), providerHandler.Me)

		providerMe := api.Group("/providers/me")
		providerMe.Use(authMw, middleware.RequireRole(domain.RoleProvider))
		{
			providerMe.GET("/wallet", walletHandler.GetWallet)
			providerMe.GET("/wallet/transactions", walletHandler.ListTransactions)
			providerMe.POST("/wallet/deposit", walletHandler.InitiateDeposit)
			providerMe.GET("/unlocks", leadHandler.ListMyUnlocks)
		}

		requests := api.Group("/requests")
		requests.Use(authMw)
		{
			requests.POST("", middleware.RequireRole(domain.RoleClient), requestHandler.Create)
			requests.GET("/mine", middleware.RequireRole(domain.RoleClient), requestHandler.ListMine)
			requests.POST("/:id/close", middleware.RequireRole(domain.RoleClient), requestHandler.Close)
			requests.GET("", middleware.RequireRole(domain.RoleProvider), leadHandler.ListLeads)
			requests.GET("/:id", middleware.RequireRole(domain.RoleProvider), leadHandler.GetLead)
			requests.POST("/:id/unlock", middleware.RequireRole(domain.RoleProvider), leadHandler.Unlock)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/providers", adminHandler.ListProviders)
			admin.POST("/providers/:id/approve", adminHandler.ApproveProvider)
			admin.POST("/providers/:id/reject", adminHandler.RejectProvider)
			admin.POST("/providers/:id/wallet/adjust", adminHandler.AdjustWallet)
			admin.GET("/unlocks", adminHandler.ListUnlocks)
			admin.POST("/unlocks/:id/refund", adminHandler.RefundUnlock)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}

		api.POST("/webhooks/mock-payment", webhookHandler.MockPayment)
	}

	return r
}
