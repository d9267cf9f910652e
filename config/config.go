package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-sourced settings. It is built once in main
// and passed explicitly to every component; nothing reads the environment
// after startup.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	AppName     string `envconfig:"APP_NAME" default:"WINPRODAI"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	CORSOrigin  string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`

	DatabaseURL string `envconfig:"DB_URL" required:"true"`

	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY" required:"true"`
	FromEmail      string `envconfig:"FROM_EMAIL" required:"true"`

	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	StripeSuccessURL    string `envconfig:"STRIPE_SUCCESS_URL" default:"http://localhost:3000/success"`
	StripeCancelURL     string `envconfig:"STRIPE_CANCEL_URL" default:"http://localhost:3000/cancel"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
