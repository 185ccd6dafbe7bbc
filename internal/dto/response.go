package dto

import "time"

// ── Auth responses ──

// TokenResponse token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime, seconds
	User         UserResponse `json:"user"`
}

// UserResponse user without credentials
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBrief display identity embedded in slots and proposals
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ── Slot responses ──

// SlotResponse slot snapshot
type SlotResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    string     `json:"status"`
	OwnerID   string     `json:"owner_id"`
	Owner     *UserBrief `json:"owner,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ImportSlotsResponse result of an iCalendar import
type ImportSlotsResponse struct {
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Slots    []SlotResponse `json:"slots"`
}

// ── Exchange responses ──

// ExchangeResponse fully resolved exchange proposal
type ExchangeResponse struct {
	ID             string        `json:"id"`
	Status         string        `json:"status"`
	ProposerID     string        `json:"proposer_id"`
	ProposerSlotID string        `json:"proposer_slot_id"`
	RecipientID    string        `json:"recipient_id"`
	TargetSlotID   string        `json:"target_slot_id"`
	Proposer       *UserBrief    `json:"proposer,omitempty"`
	Recipient      *UserBrief    `json:"recipient,omitempty"`
	ProposerSlot   *SlotResponse `json:"proposer_slot,omitempty"`
	TargetSlot     *SlotResponse `json:"target_slot,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	RespondedAt    *time.Time    `json:"responded_at,omitempty"`
}

// SwapSurfaceResponse browse view: other users' offered slots plus the caller's own
type SwapSurfaceResponse struct {
	Available []SlotResponse `json:"available"`
	Mine      []SlotResponse `json:"mine"`
}
