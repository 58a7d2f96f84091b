package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for secrets. These never appear in config files.
const (
	EnvResendAPIKey      = "RESEND_API_KEY"
	EnvWebhookSigningKey = "ALCHEMY_SIGNING_KEY"
	EnvPriceAPIKey       = "PRICE_API_KEY"
)

// Secrets holds credentials supplied through the environment.
type Secrets struct {
	// ResendAPIKey authenticates against the transactional email provider.
	ResendAPIKey string

	// WebhookSigningKey is the shared HMAC secret for webhook authenticity.
	// Empty disables signature verification.
	WebhookSigningKey string

	// PriceAPIKey is an optional API key for the price quote API.
	PriceAPIKey string
}

// LoadSecrets reads secrets from the environment, first loading a .env file
// if one exists. A missing .env file is not an error.
func LoadSecrets() Secrets {
	_ = godotenv.Load()

	return Secrets{
		ResendAPIKey:      os.Getenv(EnvResendAPIKey),
		WebhookSigningKey: os.Getenv(EnvWebhookSigningKey),
		PriceAPIKey:       os.Getenv(EnvPriceAPIKey),
	}
}
