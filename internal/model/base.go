package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel audit timestamps embedded by every table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SoftDeleteModel audit fields for rows that are hidden rather than removed
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// VersionedModel soft-deletable row guarded by an optimistic-lock version
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// newID assigns a UUID primary key when the caller left it empty.
// Keys are generated in the application so the schema works on any SQL dialect.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
