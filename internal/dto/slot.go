package dto

import "time"

// ── Slot DTOs ──

// CreateSlotRequest new slot; always created OCCUPIED
type CreateSlotRequest struct {
	Title     string    `json:"title"      binding:"required,max=200"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time"   binding:"required"`
}

// UpdateSlotRequest typed partial update; nil fields are left unchanged.
// Status may only toggle between OCCUPIED and OFFERED.
type UpdateSlotRequest struct {
	Title     *string    `json:"title"      binding:"omitempty,max=200"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    *string    `json:"status"     binding:"omitempty,oneof=OCCUPIED OFFERED"`
}
