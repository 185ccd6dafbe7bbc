package dto

// ── Exchange DTOs ──

// CreateSwapRequest propose exchanging my OFFERED slot for theirs
type CreateSwapRequest struct {
	MySlotID    string `json:"my_slot_id"    binding:"required,uuid"`
	TheirSlotID string `json:"their_slot_id" binding:"required,uuid"`
}

// RespondSwapRequest recipient's decision
type RespondSwapRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}
