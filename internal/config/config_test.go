package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_DRIVER", "DB_NAME", "DATABASE_URL", "DB_TIMEOUT", "ASSET_BACKEND",
		"UPLOADS_DIR", "MINIO_BUCKET", "MAX_UPLOAD_MB", "SESSION_SECRET", "SESSION_MAX_AGE", "CATEGORY_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != "mongo" || cfg.DBName != "catalog" || cfg.DatabaseURL != "sqlite://catalog.db" {
		t.Errorf("unexpected database defaults: %+v", cfg)
	}
	if cfg.DBTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.DBTimeout)
	}
	if cfg.AssetBackend != "disk" || cfg.UploadsDir != "./uploads" || cfg.MinioBucket != "catalog-uploads" {
		t.Errorf("unexpected asset defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("expected 5MB upload cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SessionMaxAge != time.Hour || cfg.CategoryCacheTTL != time.Hour {
		t.Errorf("unexpected durations: %s %s", cfg.SessionMaxAge, cfg.CategoryCacheTTL)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected a development session secret")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQL")
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("DB_TIMEOUT", "10")
	t.Setenv("ASSET_BACKEND", "minio")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := FromEnv()
	if cfg.DatabaseDriver != "sql" || cfg.DatabaseURL != "postgres://localhost/catalog" {
		t.Errorf("unexpected database config: %+v", cfg)
	}
	if cfg.DBTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.DBTimeout)
	}
	if cfg.AssetBackend != "minio" || !cfg.MinioUseSSL {
		t.Errorf("unexpected asset config: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 2<<20 {
		t.Errorf("expected 2MB cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.SessionSecret != "s3cret" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected session/cache config: %+v", cfg)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DB_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_MB", "-3")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := FromEnv()
	if cfg.DBTimeout != 5*time.Second || cfg.MaxUploadBytes != 5<<20 || cfg.MinioUseSSL {
		t.Errorf("expected defaults for invalid values: %+v", cfg)
	}
}
