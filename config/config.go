package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Slack    SlackConfig
	Payment  PaymentConfig
	Push     PushConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SlackConfig struct {
	WebhookURL string
	Channel    string
}

type PaymentConfig struct {
	LinkDispatcherURL string
	APIKey            string
}

type PushConfig struct {
	ExpoURL string
}

type BookingConfig struct {
	DefaultCurrency string
	AppBaseURL      string
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "spa_booking_db"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Slack: SlackConfig{
			WebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			Channel:    getEnv("SLACK_CHANNEL", "#bookings"),
		},
		Payment: PaymentConfig{
			LinkDispatcherURL: getEnv("PAYMENT_LINK_URL", ""),
			APIKey:            getEnv("PAYMENT_API_KEY", ""),
		},
		Push: PushConfig{
			ExpoURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		},
		Booking: BookingConfig{
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),
			AppBaseURL:      getEnv("APP_BASE_URL", "https://app.example.com"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
