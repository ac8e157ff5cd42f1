package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Paystack   PaystackConfig
	Donation   DonationConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// PaystackConfig carries both keys: the public key is handed to the browser
// widget, the secret key stays server-side for verify calls.
type PaystackConfig struct {
	BaseURL   string
	PublicKey string
	SecretKey string
}

type DonationConfig struct {
	// SessionTTL is how long an abandoned wizard session is kept before the
	// reaper drops it.
	SessionTTL time.Duration
	// AdminEmail/AdminPassword seed the first console account on boot.
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8090"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DB_DSN", "tumaini:tumaini@tcp(localhost:3306)/tumaini?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "tumaini",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  env("GOOGLE_REDIRECT_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Paystack: PaystackConfig{
			BaseURL:   env("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			PublicKey: env("PAYSTACK_PUBLIC_KEY", ""),
			SecretKey: env("PAYSTACK_SECRET_KEY", ""),
		},
		Donation: DonationConfig{
			SessionTTL:    30 * time.Minute,
			AdminEmail:    env("ADMIN_EMAIL", "admin@tumaini.org"),
			AdminPassword: env("ADMIN_PASSWORD", ""),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
