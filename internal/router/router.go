package router

import (
	"time"

	"bizlist/config"
	"bizlist/internal/auth"
	"bizlist/internal/checkout"
	"bizlist/internal/domain"
	"bizlist/internal/handler"
	"bizlist/internal/middleware"
	"bizlist/internal/repository"
	"bizlist/internal/service"
	"bizlist/internal/verification"
	"bizlist/internal/widget"
	"bizlist/internal/ws"
	"bizlist/pkg/processor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, factory processor.Factory, settle checkout.Settler, emailSvc verification.Service) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimitByIP(middleware.NewLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	adRepo := repository.NewAdRepository(db)
	producerRepo := repository.NewProducerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	// Shared state
	registry := widget.NewRegistry()
	store := checkout.NewStore()
	statusHub := ws.NewHub()

	// Services
	issuer := auth.NewIssuer(&cfg.JWT)
	authSvc := service.NewAuthService(issuer, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	meHandler := handler.NewMeHandler(paymentRepo)
	listingHandler := handler.NewListingHandler(adRepo)
	producerHandler := handler.NewProducerHandler(producerRepo)
	checkoutHandler := handler.NewCheckoutHandler(cfg, store, factory, registry, settle, emailSvc,
		adRepo, producerRepo, paymentRepo, verificationRepo, statusHub)
	settlementWebhookHandler := handler.NewSettlementWebhookHandler(paymentRepo, adRepo, producerRepo)

	authMw := middleware.AuthRequired(issuer)
	producerOnly := middleware.RequireRole(domain.RoleProducer, domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", authHandler.Me)
			me.GET("/payments", meHandler.ListPayments)
		}

		api.POST("/ads", authMw, listingHandler.Create)
		api.GET("/ads/:id", authMw, listingHandler.Get)
		api.POST("/producers", authMw, producerOnly, producerHandler.Create)
		api.GET("/producers/me", authMw, producerOnly, producerHandler.GetMine)

		co := api.Group("/checkout")
		// The checkout surface gets its own per-user budget so one buyer's
		// retry storm cannot drain the shared IP window for everyone behind
		// the same NAT.
		co.Use(authMw, middleware.RateLimitByUser(middleware.NewLimiter(30, 60*time.Second)))
		{
			co.POST("", checkoutHandler.Create)
			co.GET("/:id", checkoutHandler.Status)
			co.POST("/:id/container", checkoutHandler.ReportContainer)
			co.POST("/:id/retry", checkoutHandler.Retry)
			co.DELETE("/:id", checkoutHandler.Teardown)
			co.POST("/:id/email/send", checkoutHandler.SendEmailCode)
			co.POST("/:id/email/validate", checkoutHandler.ValidateEmail)
			co.POST("/:id/pay", checkoutHandler.Pay)
		}

		api.POST("/webhooks/settlement", settlementWebhookHandler.Handle)
	}

	r.GET("/ws/widget-status", ws.UpgradeStatusWS(issuer, statusHub))

	return r
}
