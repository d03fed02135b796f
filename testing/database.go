// Package testing provides test utilities and database setup for testing the tagging system
package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tagforge/tagforge/models"
)

// TestDB represents a test database instance
type TestDB struct {
	DB *gorm.DB
}

// SetupTestDB opens an isolated in-memory database and migrates the full
// model set. Every call gets its own database, so tests can run in parallel
// without sharing state.
func SetupTestDB() (*TestDB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: models.NewNamingStrategy(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Hashtag{},
		&models.TaggedItem{},
		&models.HashtaggedItem{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestDB{DB: db}, nil
}

// Cleanup closes the underlying connection, dropping the in-memory database.
func (tdb *TestDB) Cleanup() error {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// CreateTestContext returns a context for repository calls in tests.
func CreateTestContext() context.Context {
	return context.Background()
}

// TestWithDB runs fn against a fresh test database and cleans up afterwards.
func TestWithDB(fn func(testDB *TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer testDB.Cleanup()

	return fn(testDB)
}
