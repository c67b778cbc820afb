package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQL connects to the database named by databaseURL. Supported schemes
// are postgres://, postgresql:// and sqlite://<path>. Driver errors are
// translated, so unique violations surface as gorm.ErrDuplicatedKey.
func OpenSQL(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return gorm.Open(postgres.Open(databaseURL), cfg)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite path is empty in %q", databaseURL)
		}
		return gorm.Open(sqlite.Open(path), cfg)
	}
	return nil, fmt.Errorf("unsupported database URL: %s", databaseURL)
}
