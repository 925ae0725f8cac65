package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewStatusMapHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Gateway   GatewayConfig
	Commerce  CommerceConfig
	RateLimit RateLimitConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// GatewayConfig describes the Izipay validation endpoint and the companion
// checkout webhook used as a fallback data source on the create path.
type GatewayConfig struct {
	ValidateURL        string
	Username           string
	Password           string
	CheckoutWebhookURL string
}

// CommerceConfig describes the WooCommerce order API collaborator.
type CommerceConfig struct {
	APIBaseURL     string
	ConsumerKey    string
	ConsumerSecret string
}

type RateLimitConfig struct {
	Enabled           bool
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	NotificationRate  float64
	NotificationBurst int
	LockTTLSeconds    int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "izibridge"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Gateway: GatewayConfig{
			ValidateURL:        strings.TrimSpace(getenv("IZIPAY_VALIDATE_URL", "")),
			Username:           strings.TrimSpace(getenv("IZIPAY_USERNAME", "")),
			Password:           strings.TrimSpace(getenv("IZIPAY_PASSWORD", "")),
			CheckoutWebhookURL: strings.TrimSpace(getenv("CHECKOUT_WEBHOOK_URL", "")),
		},
		Commerce: CommerceConfig{
			APIBaseURL:     strings.TrimSpace(getenv("WC_API_BASE_URL", "")),
			ConsumerKey:    strings.TrimSpace(getenv("WC_CONSUMER_KEY", "")),
			ConsumerSecret: strings.TrimSpace(getenv("WC_CONSUMER_SECRET", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:         strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword:     getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:           getenvInt("RATE_LIMIT_REDIS_DB", 0),
			NotificationRate:  getenvFloat("RATE_LIMIT_NOTIFICATION_RATE", 5),
			NotificationBurst: getenvInt("RATE_LIMIT_NOTIFICATION_BURST", 20),
			LockTTLSeconds:    getenvInt("RATE_LIMIT_LOCK_TTL_SECONDS", 30),
		},
		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "izibridge"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
