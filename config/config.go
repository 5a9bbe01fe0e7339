package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisPaymentDB int    `mapstructure:"REDIS_PAYMENT_DB"`

	// Stripe secret key for checkout session creation.
	StripeKey          string `mapstructure:"STRIPE_KEY"`
	CheckoutSuccessURL string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string `mapstructure:"CHECKOUT_CANCEL_URL"`

	// Booking policy. The service is UK-only; all cutoff decisions are made
	// against this zone's wall clock.
	BookingTimezone string `mapstructure:"BOOKING_TIMEZONE"`
	CutoffHour      int    `mapstructure:"CUTOFF_HOUR"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_PAYMENT_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CHECKOUT_SUCCESS_URL", "https://carebook.example.com/booking/success")
	viper.SetDefault("CHECKOUT_CANCEL_URL", "https://carebook.example.com/booking/cancelled")
	viper.SetDefault("BOOKING_TIMEZONE", "Europe/London")
	viper.SetDefault("CUTOFF_HOUR", 18)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BookingLocation resolves the configured booking timezone, falling back to
// Europe/London when the zone name cannot be loaded.
func BookingLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BookingTimezone)
	if err != nil {
		loc, err = time.LoadLocation("Europe/London")
		if err != nil {
			return time.UTC
		}
	}
	return loc
}
