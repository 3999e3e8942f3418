// Package dbtest opens throwaway SQLite databases with the production gorm
// settings so store tests exercise real transactions and unique indexes.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns an isolated in-memory database with the shared models and the
// given plugin models migrated. A single connection serializes writers the way
// row locks do on postgres.
func Open(t testing.TB, modelList ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:dbtest_%d?mode=memory&cache=shared&_foreign_keys=1", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.MigrateShared(db); err != nil {
		t.Fatalf("migrate shared: %v", err)
	}
	if err := database.MigrateModels(db, modelList); err != nil {
		t.Fatalf("migrate models: %v", err)
	}
	return db
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t testing.TB, db *gorm.DB, screenName string) uuid.UUID {
	t.Helper()

	name := screenName
	user := models.User{
		ID:           uuid.New(),
		Email:        screenName + "@example.com",
		ScreenName:   &name,
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", screenName, err)
	}
	return user.ID
}
