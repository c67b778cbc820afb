// Package storetest opens throwaway SQL stores for tests outside the store
// package.
package storetest

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/internal/store"
)

// Epoch is the first timestamp handed out by Clock.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock advances one second per call so creation order is strict.
func Clock() func() time.Time {
	var ticks atomic.Int64
	return func() time.Time {
		return Epoch.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

// NewSQLite returns a migrated SQLStore on a sqlite file in t.TempDir().
// A single connection serializes writers, so racing inserts surface as
// ErrDuplicate rather than a locked database.
func NewSQLite(t testing.TB) *store.SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.NewSQLStore(db, store.WithClock(Clock()))
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}
