package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	AWS       AWSConfig
	Admin     AdminConfig
	Analytics AnalyticsConfig
	Maps      MapsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all (e.g. http://localhost:3000,http://localhost:3001)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/warehousing?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings. Empty Addr disables the SEO cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	FromAddress    string
	FromName       string
	OperatorEmail  string
	SendTimeoutSec int
}

// AWSConfig holds AWS credentials and the S3 bucket for resume uploads.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ResumesBucket   string
}

// AdminConfig holds the shared key for operator endpoints.
// APIKeyHash (bcrypt) takes precedence over the plain APIKey when set.
type AdminConfig struct {
	APIKey     string
	APIKeyHash string
}

// AnalyticsConfig holds the public analytics beacon id, served to the frontend.
type AnalyticsConfig struct {
	MeasurementID string
}

// MapsConfig holds the mapping-service key, served via /maps-key instead of being embedded client-side.
type MapsConfig struct {
	APIKey string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "warehousing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", "localhost"),
			Port:           getEnvInt("SMTP_PORT", 587),
			User:           getEnv("SMTP_USER", ""),
			Password:       getEnv("SMTP_PASS", ""),
			FromAddress:    getEnv("EMAIL_FROM_ADDRESS", "noreply@mvtwarehousing.com"),
			FromName:       getEnv("EMAIL_FROM_NAME", "MVT Warehousing"),
			OperatorEmail:  getEnv("OPERATOR_EMAIL", "info@mvtwarehousing.com"),
			SendTimeoutSec: getEnvInt("SMTP_SEND_TIMEOUT_SEC", 10),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ResumesBucket:   getEnv("AWS_S3_RESUMES_BUCKET", "mvt-warehousing-resumes"),
		},
		Admin: AdminConfig{
			APIKey:     getEnv("ADMIN_API_KEY", ""),
			APIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Analytics: AnalyticsConfig{
			MeasurementID: getEnv("ANALYTICS_MEASUREMENT_ID", ""),
		},
		Maps: MapsConfig{
			APIKey: getEnv("MAPS_API_KEY", ""),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SplitTrim splits s on sep, trims whitespace, and drops empty entries.
// Used for CORS origins and for normalizing comma-separated recipient input.
func SplitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
