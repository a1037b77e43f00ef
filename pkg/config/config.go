package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Auth     AuthConfig
	Email    EmailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type NATSConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type EmailConfig struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SMTPFrom      string
	SMTPUseTLS    bool
	MailerSendKey string
	DevMode       bool // print emails to logs instead of sending
}

type AppConfig struct {
	// FrontendURL is the base for reset-password and confirmation links.
	FrontendURL string
}

func Load() *Config {
	// Best effort; env vars win over .env entries.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    int32(getInt("DB_MAX_CONNS", 10)),
			MinConns:    int32(getInt("DB_MIN_CONNS", 1)),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			ResetTokenTTL:  getDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Email: EmailConfig{
			SMTPHost:      getEnv("SMTP_HOST", "localhost"),
			SMTPPort:      getInt("SMTP_PORT", 1025),
			SMTPUser:      getEnv("SMTP_USER", ""),
			SMTPPass:      getEnv("SMTP_PASS", ""),
			SMTPFrom:      getEnv("SMTP_FROM", "noreply@stayloop.local"),
			SMTPUseTLS:    getBool("SMTP_USE_TLS", false),
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			DevMode:       getBool("EMAIL_DEV_MODE", true),
		},
		App: AppConfig{
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
	}
}

// Validate reports the first missing required setting. The database URL
// and JWT secret are always required; SMTP credentials only when the
// mailer is expected to deliver for real.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !c.Email.DevMode && c.Email.MailerSendKey == "" && c.Email.SMTPUser == "" {
		return fmt.Errorf("mail credentials are required unless EMAIL_DEV_MODE=true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
