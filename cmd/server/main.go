package main

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tkoeppen/giftlist-api/internal/config"
	"github.com/tkoeppen/giftlist-api/internal/constants"
	"github.com/tkoeppen/giftlist-api/internal/database"
	"github.com/tkoeppen/giftlist-api/internal/handlers"
	"github.com/tkoeppen/giftlist-api/internal/logger"
	"github.com/tkoeppen/giftlist-api/internal/mailer"
	"github.com/tkoeppen/giftlist-api/internal/middleware"
	"github.com/tkoeppen/giftlist-api/internal/repository"
	"github.com/tkoeppen/giftlist-api/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	giftRepo := repository.NewGiftRepository(db)

	// Invite delivery; without an SMTP relay invites are silently dropped
	var notifier mailer.Notifier = mailer.NoopNotifier{}
	if cfg.SMTPHost != "" {
		notifier = mailer.NewSMTPMailer(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			cfg.EmailFrom,
			cfg.AdminEmail,
			cfg.SiteRoot,
		)
	} else {
		log.Warn("SMTP_HOST not set, invite emails are disabled")
	}

	// Services
	identityService := services.NewIdentityService(userRepo)
	listService := services.NewListService(listRepo, identityService, notifier, log)
	giftService := services.NewGiftService(giftRepo, listRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(identityService)
	listHandler := handlers.NewListHandler(listService, identityService)
	giftHandler := handlers.NewGiftHandler(giftService)

	r := gin.Default()

	// Cookie sessions; the login link is the only credential users ever see
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Login link from invite emails
	r.GET("/login/:token", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", authHandler.GetCurrentUser)

		lists := api.Group("/lists")
		{
			lists.GET("", listHandler.ListLists)
			lists.POST("", listHandler.CreateList)
			lists.GET("/:id", listHandler.GetList)
			lists.PUT("/:id", listHandler.UpdateList)
			lists.DELETE("/:id", listHandler.DeleteList)
			lists.GET("/:id/members", listHandler.ListMembers)
			lists.GET("/:id/members/:user_id/gifts", giftHandler.ListGifts)
			lists.PUT("/:id/gifts", giftHandler.ReconcileGifts)
		}

		gifts := api.Group("/gifts")
		{
			gifts.GET("/:id", giftHandler.GetGift)
			gifts.POST("/:id/claim", giftHandler.ClaimGift)
			gifts.POST("/:id/unclaim", giftHandler.UnclaimGift)
		}
	}

	log.Infof("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
