package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Wallet   WalletConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration.
// Tokens are issued by the identity service; this service only validates them.
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// StripeConfig holds payment gateway credentials and checkout settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
	ProductName   string
}

// Configured reports whether checkout sessions can be created
func (c StripeConfig) Configured() bool {
	return c.SecretKey != ""
}

const (
	// MinPendingExpiry is the shortest accepted WALLET_PENDING_EXPIRY. Anything lower
	// would leave no room for a checkout session the gateway still accepts.
	MinPendingExpiry = 90 * time.Minute

	maxCheckoutTTL = 23 * time.Hour
	checkoutGrace  = 30 * time.Minute
)

// WalletConfig holds ledger policy
type WalletConfig struct {
	// TutorRole is the account role whose top-ups count towards total earnings
	TutorRole string
	MinTopUp  decimal.Decimal
	// MaxTopUp of zero means unlimited
	MaxTopUp decimal.Decimal
	// PendingExpiry of zero keeps abandoned top-ups PENDING forever
	PendingExpiry  time.Duration
	ExpiryInterval time.Duration
	NotifyChannel  string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "wiznovy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
			SuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/wallet?topup=success"),
			CancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/wallet?topup=cancelled"),
			ProductName:   getEnv("STRIPE_PRODUCT_NAME", "Wallet top-up"),
		},
		Wallet: WalletConfig{
			TutorRole:      getEnv("WALLET_TUTOR_ROLE", "TUTOR"),
			MinTopUp:       getEnvAsDecimal("WALLET_MIN_TOPUP", decimal.NewFromInt(1)),
			MaxTopUp:       getEnvAsDecimal("WALLET_MAX_TOPUP", decimal.Zero),
			PendingExpiry:  pendingExpiry(getEnvAsDuration("WALLET_PENDING_EXPIRY", 0)),
			ExpiryInterval: getEnvAsDuration("WALLET_EXPIRY_INTERVAL", 5*time.Minute),
			NotifyChannel:  getEnv("WALLET_NOTIFY_CHANNEL", "wallet:settlements"),
		},
	}
}

// CheckoutTTL is how long a checkout stays payable. It closes at least
// checkoutGrace before the expiry job may fail the pending top-up.
func (c WalletConfig) CheckoutTTL() time.Duration {
	if c.PendingExpiry <= 0 {
		return 0
	}
	ttl := c.PendingExpiry - checkoutGrace
	if ttl > maxCheckoutTTL {
		ttl = maxCheckoutTTL
	}
	return ttl
}

func pendingExpiry(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	if d < MinPendingExpiry {
		return MinPendingExpiry
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil && !d.IsNegative() {
			return d
		}
	}
	return defaultValue
}
