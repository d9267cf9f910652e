package main

import (
	"os"
	"time"

	"billing-app/config"
	"billing-app/database"
	routes "billing-app/internal/app/http"
	"billing-app/internal/app/http/middleware"
	"billing-app/internal/infra/email"
	"billing-app/internal/infra/stripeclient"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	cfg, err := config.Load()
	if err != nil {
		errLogger := zerolog.New(os.Stderr)
		errLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.AppName).Logger()
	if cfg.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Config: cfg,
		DB:     db,
		Stripe: stripeclient.New(cfg.StripeSecretKey),
		Email:  email.NewSendGridSender(cfg.SendGridAPIKey, cfg.FromEmail, cfg.AppName, logger),
		Logger: logger,
	})

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server running")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
