package repositories

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory sqlite database per test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&DBRole{}, &DBUser{}, &DBOtpCode{}, &DBSession{}, &DBSecretToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
