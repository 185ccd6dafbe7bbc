// Package testutil provides an in-memory SQLite database and fixtures for
// repository and service tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
)

// pendingIndexes mirror the partial unique indexes of the postgres migration
var pendingIndexes = []string{
	`CREATE UNIQUE INDEX uq_proposals_pending_proposer_slot ON exchange_proposals (proposer_slot_id) WHERE status = 'PENDING'`,
	`CREATE UNIQUE INDEX uq_proposals_pending_target_slot ON exchange_proposals (target_slot_id) WHERE status = 'PENDING'`,
}

// OpenDB opens a private in-memory database with the schema migrated.
// The pool is pinned to one connection, so the database lives as long as the test
// and concurrent transactions are serialized instead of failing with SQLITE_BUSY.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Slot{}, &model.ExchangeProposal{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	for _, stmt := range pendingIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create index: %v", err)
		}
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user named name
func CreateUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$10$placeholder",
	}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// CreateSlot inserts a one-hour slot starting at start
func CreateSlot(t *testing.T, db *gorm.DB, owner *model.User, title string, start time.Time, status model.SlotStatus) *model.Slot {
	t.Helper()

	slot := &model.Slot{
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   start.UTC().Add(time.Hour),
		Status:    status,
		OwnerID:   owner.UserID,
	}
	slot.Version = 1
	if err := db.WithContext(context.Background()).Create(slot).Error; err != nil {
		t.Fatalf("failed to create slot %s: %v", title, err)
	}
	return slot
}

// ReloadSlot reads the slot straight from the table, bypassing soft-delete scoping
func ReloadSlot(t *testing.T, db *gorm.DB, id string) *model.Slot {
	t.Helper()

	var slot model.Slot
	if err := db.Unscoped().Where("slot_id = ?", id).First(&slot).Error; err != nil {
		t.Fatalf("failed to reload slot %s: %v", id, err)
	}
	return &slot
}
