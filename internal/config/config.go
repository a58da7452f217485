package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Payment   PaymentConfig
	Email     EmailConfig
	Storage   StorageConfig
	Jobs      JobsConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port                 string
	Env                  string
	FrontendURL          string
	ServeStatic          bool
	StaticDir            string
	ExposeInternalErrors bool
}

// IsProduction reports whether the server runs in production mode
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	DSN      string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL. DATABASE_URL wins over the
// individual DB_* settings.
func (c DatabaseConfig) URL() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// PaymentConfig holds payment gateway configuration
type PaymentConfig struct {
	StripeSecretKey string
	AllowSimulated  bool
	Currency        string
}

// EmailConfig holds outbound SMTP settings. An empty Host disables receipts.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether receipt emails can be sent
func (c EmailConfig) Enabled() bool {
	return c.Host != ""
}

// StorageConfig holds the optional receipt archive settings
// Static credentials are optional; the default AWS chain is used without them.
type StorageConfig struct {
	ReceiptBucket      string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	Endpoint           string
}

// ArchiveEnabled reports whether receipts are copied to object storage
func (c StorageConfig) ArchiveEnabled() bool {
	return c.ReceiptBucket != ""
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ReconcileInterval time.Duration
	ReceiptWorkers    int
}

// RateLimitConfig holds public endpoint rate limits
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	CharityListTTL time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	env := getEnv("SERVER_ENV", getEnv("NODE_ENV", "development"))
	production := env == "production"

	return &Config{
		Server: ServerConfig{
			Port:                 getEnv("PORT", getEnv("SERVER_PORT", "5000")),
			Env:                  env,
			FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
			ServeStatic:          getEnvAsBool("SERVE_STATIC", production),
			StaticDir:            getEnv("STATIC_DIR", "../frontend/build"),
			ExposeInternalErrors: getEnvAsBool("EXPOSE_INTERNAL_ERRORS", !production),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			DSN:      getEnv("DATABASE_URL", ""),
			Path:     getEnv("DB_PATH", "donations.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "donations"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
		},
		Payment: PaymentConfig{
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			AllowSimulated:  getEnvAsBool("PAYMENT_ALLOW_SIMULATED", !production),
			Currency:        getEnv("DONATION_CURRENCY", "USD"),
		},
		Email: EmailConfig{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),
		},
		Storage: StorageConfig{
			ReceiptBucket:      getEnv("RECEIPT_BUCKET", ""),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:           getEnv("RECEIPT_ENDPOINT", ""),
		},
		Jobs: JobsConfig{
			ReconcileInterval: getEnvAsDuration("RECONCILE_INTERVAL", time.Hour),
			ReceiptWorkers:    getEnvAsInt("RECEIPT_WORKERS", 4),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 1),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		Cache: CacheConfig{
			CharityListTTL: getEnvAsDuration("CHARITY_CACHE_TTL", 30*time.Second),
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
