package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=720h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	FrontendURL string        `env:"FRONTEND_URL, default=http://localhost:5173"`

	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	S3     S3Config
	Stripe StripeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=lms_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=no-reply@localhost"`
}

type S3Config struct {
	Region          string `env:"S3_REGION, default=us-east-1"`
	Bucket          string `env:"S3_BUCKET, default=lms-uploads"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		panic(err)
	}
	return &cfg
}
