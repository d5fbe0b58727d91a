package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY environment variable is not set")

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Host     string `mapstructure:"host"`
	BasePath string `mapstructure:"base_path"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
}

type PaymentsConfig struct {
	Currency  string `mapstructure:"currency"`
	ReturnURL string `mapstructure:"return_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	JaegerURL   string `mapstructure:"jaeger_url"`
}

type AppConfig struct {
	Environment string           `mapstructure:"environment"`
	Server      *ServerConfig    `mapstructure:"server"`
	Cors        *CorsConfig      `mapstructure:"cors"`
	Stripe      *StripeConfig    `mapstructure:"stripe"`
	Payments    *PaymentsConfig  `mapstructure:"payments"`
	Log         *LogConfig       `mapstructure:"log"`
	Telemetry   *TelemetryConfig `mapstructure:"telemetry"`
}

// LoadConfig reads the process environment (and a .env file when present).
// A missing Stripe secret key is an error: the service must not start without it.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 80)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("cors.allowed_origins", []string{"https://virtwin-energy.se", "https://www.virtwin-energy.se"})
	v.SetDefault("stripe.base_url", "https://api.stripe.com")
	v.SetDefault("payments.currency", "sek")
	v.SetDefault("payments.return_url", "https://virtwin-energy.se/success.html")
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "checkout-api")
	v.SetDefault("telemetry.jaeger_url", "http://jaeger:14268/api/traces")

	_ = v.BindEnv("environment", "NODE_ENV", "ENVIRONMENT")
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.base_path", "SERVER_BASE_PATH")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ORIGIN")
	_ = v.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")
	_ = v.BindEnv("stripe.base_url", "STRIPE_BASE_URL")
	_ = v.BindEnv("payments.currency", "PAYMENTS_CURRENCY")
	_ = v.BindEnv("payments.return_url", "PAYMENTS_RETURN_URL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("telemetry.enabled", "TELEMETRY_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "TELEMETRY_SERVICE_NAME")
	_ = v.BindEnv("telemetry.jaeger_url", "JAEGER_URL")

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if config.Stripe.SecretKey == "" {
		return nil, ErrMissingStripeKey
	}

	return &config, nil
}
