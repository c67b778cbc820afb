package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port string

	// DatabaseDriver is "mongo" or "sql".
	DatabaseDriver string
	MongoURI       string
	DBName         string
	DatabaseURL    string
	DBTimeout      time.Duration

	// AssetBackend is "disk" or "minio".
	AssetBackend   string
	UploadsDir     string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MaxUploadBytes int64

	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookies bool

	RedisURL         string
	CategoryCacheTTL time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	cfg := Config{
		Port:             getEnvOrDefault("PORT", "5000"),
		DatabaseDriver:   strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "mongo")),
		MongoURI:         getEnvOrDefault("MONGO_URI", ""),
		DBName:           getEnvOrDefault("DB_NAME", "catalog"),
		DatabaseURL:      getEnvOrDefault("DATABASE_URL", "sqlite://catalog.db"),
		DBTimeout:        getDurationEnv("DB_TIMEOUT", 5, time.Second),
		AssetBackend:     strings.ToLower(getEnvOrDefault("ASSET_BACKEND", "disk")),
		UploadsDir:       getEnvOrDefault("UPLOADS_DIR", "./uploads"),
		MinioEndpoint:    getEnvOrDefault("MINIO_ENDPOINT", ""),
		MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", ""),
		MinioBucket:      getEnvOrDefault("MINIO_BUCKET", "catalog-uploads"),
		MinioUseSSL:      getBoolEnv("MINIO_USE_SSL", false),
		MaxUploadBytes:   int64(getIntEnv("MAX_UPLOAD_MB", 5)) << 20,
		SessionSecret:    getEnvOrDefault("SESSION_SECRET", ""),
		SessionMaxAge:    getDurationEnv("SESSION_MAX_AGE", 60, time.Minute),
		SecureCookies:    getBoolEnv("SECURE_COOKIES", false),
		RedisURL:         getEnvOrDefault("REDIS_URL", ""),
		CategoryCacheTTL: getDurationEnv("CATEGORY_CACHE_TTL", 60, time.Minute),
	}
	if cfg.SessionSecret == "" {
		log.Println("SESSION_SECRET not set, using an insecure development secret")
		cfg.SessionSecret = "catalog-dev-session-secret"
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
