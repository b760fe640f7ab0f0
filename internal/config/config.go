package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Razorpay RazorpayConfig `envPrefix:"RAZORPAY_"`
	Payment  PaymentConfig  `envPrefix:"PAYMENT_"`
	MinIO    MinIOConfig    `envPrefix:"MINIO_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	SMTP     SMTPConfig     `envPrefix:"SMTP_"`
	Job      JobConfig      `envPrefix:"JOB_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"Bookstore Marketplace API"`
	Environment string `env:"ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"PORT" envDefault:"8080"`
	Version     string `env:"VERSION" envDefault:"1.0.0"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Database string `env:"NAME" envDefault:"bookstore"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	MaxConns int    `env:"MAX_CONNS" envDefault:"25"`
	MinConns int    `env:"MIN_CONNS" envDefault:"5"`

	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"1m"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"5"`
	RetryDelay      time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

// DSN dạng URL, dùng chung cho pgxpool và goose (lib/pq)
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET" envDefault:"your-secret-key-change-in-production"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"1h"`
}

// =====================================================
// RAZORPAY CONFIGURATION
// =====================================================

type RazorpayConfig struct {
	KeyID     string        `env:"KEY_ID"`
	KeySecret string        `env:"KEY_SECRET"` // Secret cho HMAC-SHA256 verify signature
	APIURL    string        `env:"API_URL" envDefault:"https://api.razorpay.com"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	// UseMock=true dùng gateway giả lập (local dev / e2e không có key thật)
	UseMock bool `env:"USE_MOCK" envDefault:"false"`
}

type PaymentConfig struct {
	Currency  string        `env:"CURRENCY" envDefault:"INR"`
	IntentTTL time.Duration `env:"INTENT_TTL" envDefault:"15m"`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"BUCKET" envDefault:"bookstore"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

type KafkaConfig struct {
	Brokers  []string `env:"BROKERS" envSeparator:","`
	ClientID string   `env:"CLIENT_ID" envDefault:"bookstore-api"`
}

func (k KafkaConfig) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

type SMTPConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"1025"`
	From string `env:"FROM" envDefault:"noreply@bookstore.dev"`
}

type JobConfig struct {
	// Cron spec cho job quét intent quá hạn
	ExpireIntentsCron string `env:"EXPIRE_INTENTS_CRON" envDefault:"*/10 * * * *"`
	ExpireBatchLimit  int    `env:"EXPIRE_BATCH_LIMIT" envDefault:"100"`
	Concurrency       int    `env:"CONCURRENCY" envDefault:"20"`
	HealthPort        string `env:"HEALTH_PORT" envDefault:"9999"`
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Payment.IntentTTL <= 0 {
		return fmt.Errorf("PAYMENT_INTENT_TTL must be positive")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}

	// Production environment phải có secrets thật
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Razorpay.UseMock {
			return fmt.Errorf("RAZORPAY_USE_MOCK is not allowed in production")
		}
		if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
			return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
