package router

import (
	"net/http"
	"time"

	"tumaini/config"
	"tumaini/internal/domain"
	"tumaini/internal/handler"
	"tumaini/internal/middleware"
	"tumaini/internal/repository"
	"tumaini/internal/service"
	"tumaini/internal/wizard"
	"tumaini/internal/ws"
	"tumaini/pkg/cloudinary"
	"tumaini/pkg/paystack"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	fundRepo := repository.NewFundRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	feed := ws.NewHub()
	sessions := wizard.NewManager(cfg.Donation.SessionTTL)
	gateway := paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.PublicKey)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	reconciler := service.NewReconcileService(donationRepo, gateway, feed, auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	fundHandler := handler.NewFundHandler(fundRepo, cloud)
	donationHandler := handler.NewDonationHandler(cfg, sessions, fundRepo, donationRepo, reconciler, gateway, feed)
	verifyHandler := handler.NewVerifyHandler(reconciler)
	adminHandler := handler.NewAdminHandler(donationRepo, fundRepo, auditRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": sessions.Count(), "feed_clients": feed.ClientCount()})
	})

	// Reconciliation endpoint keeps its original path contract.
	r.POST("/api/payment/verify", verifyHandler.Handle)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/funds", fundHandler.List)
		api.GET("/funds/:id", fundHandler.Get)

		donations := api.Group("/donations")
		{
			donations.POST("/sessions", donationHandler.StartSession)
			donations.GET("/sessions/:id", donationHandler.GetSession)
			donations.POST("/sessions/:id/amount", donationHandler.SubmitAmount)
			donations.POST("/sessions/:id/donor", donationHandler.SubmitDonor)
			donations.POST("/sessions/:id/back", donationHandler.Back)
			donations.POST("/sessions/:id/pay", donationHandler.Pay)
			donations.POST("/sessions/:id/callback", donationHandler.Callback)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/funds", adminHandler.ListFunds)
			admin.POST("/funds", fundHandler.Create)
			admin.PUT("/funds/:id", fundHandler.Update)
			admin.POST("/funds/:id/cover", fundHandler.UploadCover)
			admin.GET("/donations", adminHandler.ListDonations)
			admin.GET("/donations/:reference", adminHandler.GetDonation)
			admin.GET("/donations-totals", adminHandler.Totals)
			admin.GET("/audit-logs", adminHandler.AuditLogs)
		}
	}

	r.GET("/ws/donations", ws.UpgradeDonationFeed(&cfg.JWT, feed))

	return r
}
