package routes

import (
	"net/http"
	"time"

	"billing-app/config"
	billingapi "billing-app/internal/api/billing"
	emailsapi "billing-app/internal/api/emails"
	stripewebhooks "billing-app/internal/api/stripewebhook"
	"billing-app/internal/app/http/middleware"
	"billing-app/internal/domain/billing"
	"billing-app/internal/infra/email"
	"billing-app/internal/infra/stripeclient"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps carries everything the route handlers need, built once in main.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Stripe stripeclient.Client
	Email  email.Sender
	Logger zerolog.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	repo := billing.NewRepository(d.DB)

	emailsHandler := emailsapi.NewHandler(d.Email, d.Logger)
	billingHandler := billingapi.NewHandler(d.Config, d.Stripe, d.Logger)
	webhookHandler := stripewebhooks.NewHandler(d.Config, d.Stripe, repo, d.Email, d.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now()})
	})

	// The webhook stays outside the sanitizing group: signature
	// verification needs the raw body byte-for-byte.
	r.POST("/api/payments/stripe/webhook", webhookHandler.HandleWebhook)

	api := r.Group("/api")
	api.Use(middleware.SanitizeJSONInput())

	api.POST("/emails/welcome", emailsHandler.SendWelcomeEmail)
	api.POST("/emails/transaction", emailsHandler.SendTransactionEmail)

	api.POST("/payments/stripe/create-checkout-session", billingHandler.CreateCheckoutSession)
	api.GET("/payments/stripe/verify", billingHandler.VerifySession)
}
