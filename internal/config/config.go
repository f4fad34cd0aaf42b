package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Momo      MomoConfig
	Order     OrderConfig
	Discount  DiscountConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Job       JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	FrontendURL string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

// =====================================================
// MOMO CONFIGURATION
// =====================================================

type MomoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string // HMAC-SHA256 key
	Endpoint    string // gateway base URL
	RedirectURL string // browser return target (our /payments/momo/return)
	IPNURL      string // server-to-server notification target
	RequestType string
	Lang        string
	Timeout     time.Duration
	// ResultURL là trang frontend nhận kết quả sau khi redirect
	ResultURL string
}

// =====================================================
// ORDER CONFIGURATION
// =====================================================

type OrderConfig struct {
	FreeShippingThreshold decimal.Decimal
	StandardShippingFee   decimal.Decimal
	ExpressShippingFee    decimal.Decimal
	SameDayShippingFee    decimal.Decimal
	TaxRate               decimal.Decimal
	// UTCOffsetHours xác định "ngày" dùng trong order number
	UTCOffsetHours int
	PaymentTimeout time.Duration
	CacheTTL       time.Duration
}

type DiscountConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	Enabled bool
	Rate    float64
	Burst   int
}

type CORSConfig struct {
	AllowOrigins []string
}

// JobConfig cho worker và scheduler
type JobConfig struct {
	Concurrency int
	// ReconcileCron: lịch query MoMo cho đơn chưa nhận được IPN
	ReconcileCron      string
	ReconcileOlderThan time.Duration
	ReconcileLimit     int
	HealthPort         string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Netshop API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "localhost"),
			Port: getEnv("SMTP_PORT", "1025"),
			From: getEnv("SMTP_FROM", "noreply@netshop.dev"),
		},

		// ========================================
		// MOMO CONFIGURATION
		// ========================================
		Momo: MomoConfig{
			PartnerCode: getEnv("MOMO_PARTNER_CODE", ""),
			AccessKey:   getEnv("MOMO_ACCESS_KEY", ""),
			SecretKey:   getEnv("MOMO_SECRET_KEY", ""),
			Endpoint:    getEnv("MOMO_API_URL", "https://test-payment.momo.vn"),
			RedirectURL: getEnv("MOMO_RETURN_URL", "http://localhost:8080/api/v1/payments/momo/return"),
			IPNURL:      getEnv("MOMO_IPN_URL", "http://localhost:8080/api/v1/payments/momo/ipn"),
			RequestType: getEnv("MOMO_REQUEST_TYPE", "captureWallet"),
			Lang:        getEnv("MOMO_LANG", "vi"),
			Timeout:     getEnvDuration("MOMO_TIMEOUT", 30*time.Second),
			ResultURL:   getEnv("MOMO_RESULT_URL", "http://localhost:3000/payment/result"),
		},

		Order: OrderConfig{
			FreeShippingThreshold: getEnvDecimal("ORDER_FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(500000)),
			StandardShippingFee:   getEnvDecimal("ORDER_FEE_STANDARD", decimal.NewFromInt(30000)),
			ExpressShippingFee:    getEnvDecimal("ORDER_FEE_EXPRESS", decimal.NewFromInt(50000)),
			SameDayShippingFee:    getEnvDecimal("ORDER_FEE_SAME_DAY", decimal.NewFromInt(80000)),
			TaxRate:               getEnvDecimal("ORDER_TAX_RATE", decimal.NewFromFloat(0.10)),
			UTCOffsetHours:        getEnvInt("ORDER_UTC_OFFSET_HOURS", 7),
			PaymentTimeout:        getEnvDuration("ORDER_PAYMENT_TIMEOUT", 30*time.Minute),
			CacheTTL:              getEnvDuration("ORDER_CACHE_TTL", 5*time.Minute),
		},
		Discount: DiscountConfig{
			Enabled: getEnvBool("DISCOUNT_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Rate:    getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst:   getEnvInt("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowOrigins: strings.Split(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ","),
		},
		Job: JobConfig{
			Concurrency:        getEnvInt("WORKER_CONCURRENCY", 20),
			ReconcileCron:      getEnv("MOMO_RECONCILE_CRON", "*/10 * * * *"),
			ReconcileOlderThan: getEnvDuration("MOMO_RECONCILE_OLDER_THAN", 15*time.Minute),
			ReconcileLimit:     getEnvInt("MOMO_RECONCILE_LIMIT", 100),
			HealthPort:         getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Order.TaxRate.IsNegative() || c.Order.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("ORDER_TAX_RATE must be between 0 and 1")
	}
	if c.Momo.Timeout <= 0 {
		return fmt.Errorf("MOMO_TIMEOUT must be positive")
	}

	// Production environment phải có secrets thật
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Momo.PartnerCode == "" || c.Momo.SecretKey == "" {
			return fmt.Errorf("MOMO_PARTNER_CODE and MOMO_SECRET_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDecimal đọc số tiền dạng chuỗi (vd "500000") để tránh sai số float
func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
