package model

import (
	"time"

	"gorm.io/gorm"
)

// SlotStatus exchange status of a calendar slot
type SlotStatus string

const (
	// SlotOccupied normal, owner-controlled
	SlotOccupied SlotStatus = "OCCUPIED"
	// SlotOffered the owner has marked the slot exchangeable
	SlotOffered SlotStatus = "OFFERED"
	// SlotLocked committed to an outstanding proposal; immutable to its owner
	SlotLocked SlotStatus = "LOCKED"
)

// Valid reports whether s is one of the known statuses
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotOccupied, SlotOffered, SlotLocked:
		return true
	}
	return false
}

// OwnerSettable reports whether an owner may set s directly.
// LOCKED is reachable only through the exchange protocol.
func (s SlotStatus) OwnerSettable() bool {
	return s == SlotOccupied || s == SlotOffered
}

// Slot calendar slot table: slots
type Slot struct {
	SlotID    string     `gorm:"type:uuid;primaryKey"                      json:"slot_id"`
	Title     string     `gorm:"type:varchar(200);not null"                json:"title"`
	StartTime time.Time  `gorm:"not null;index:idx_slots_owner_start,priority:2" json:"start_time"`
	EndTime   time.Time  `gorm:"not null"                                  json:"end_time"`
	Status    SlotStatus `gorm:"type:varchar(20);not null;default:'OCCUPIED';index" json:"status"`
	OwnerID   string     `gorm:"type:uuid;not null;index:idx_slots_owner_start,priority:1" json:"owner_id"`
	VersionedModel

	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

// TableName table name
func (Slot) TableName() string { return "slots" }

// BeforeCreate assigns the primary key
func (s *Slot) BeforeCreate(_ *gorm.DB) error {
	newID(&s.SlotID)
	return nil
}
