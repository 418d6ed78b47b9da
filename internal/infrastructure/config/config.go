package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	OTLP        OTLPConfig
	Log         LogConfig
	Store       StoreConfig
	Description DescriptionConfig
	Checkout    CheckoutConfig
	Image       ImageConfig
}

type ServerConfig struct {
	Port       string
	Host       string
	AdminToken string
	// carts and editor drafts untouched this long are dropped
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

type LogConfig struct {
	Level string
	File  string
}

type StoreConfig struct {
	Driver      string
	BoltPath    string
	DatabaseURL string
}

type DescriptionConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type CheckoutConfig struct {
	StoreName string
	BaseURL   string
	Phone     string
}

type ImageConfig struct {
	MaxBytes     int
	MaxDimension int
	MaxPixels    int
	Quality      int
}

// LoadConfig loads configuration from environment variables.
// Outside production a .env file in the working directory is loaded first.
func LoadConfig() *Config {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	return &Config{
		Server: ServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       getEnv("SERVER_PORT", "8080"),
			AdminToken: getEnv("ADMIN_TOKEN", ""),

			SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 24*time.Hour),
			SweepInterval:      getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", true),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "bolt"),
			BoltPath:    getEnv("BOLT_PATH", "storefront.db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Description: DescriptionConfig{
			APIKey:  getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: getEnvDuration("DESCRIPTION_TIMEOUT", 20*time.Second),
		},
		Checkout: CheckoutConfig{
			StoreName: getEnv("STORE_NAME", "Paty Modas"),
			BaseURL:   getEnv("CHECKOUT_BASE_URL", "https://wa.me"),
			Phone:     getEnv("CHECKOUT_PHONE", "5518981784826"),
		},
		Image: ImageConfig{
			MaxBytes:     getEnvInt("IMAGE_MAX_BYTES", 5<<20),
			MaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 1200),
			MaxPixels:    getEnvInt("IMAGE_MAX_PIXELS", 40_000_000),
			Quality:      getEnvInt("IMAGE_JPEG_QUALITY", 80),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
