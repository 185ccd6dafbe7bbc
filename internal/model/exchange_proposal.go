package model

import (
	"time"

	"gorm.io/gorm"
)

// ProposalStatus lifecycle status of an exchange proposal
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalDeclined ProposalStatus = "DECLINED"
)

// Terminal reports whether the proposal can no longer change
func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalDeclined
}

// ExchangeProposal exchange ledger table: exchange_proposals.
// Rows are never deleted; terminal rows are the exchange history.
type ExchangeProposal struct {
	ProposalID     string         `gorm:"type:uuid;primaryKey"                        json:"proposal_id"`
	ProposerID     string         `gorm:"type:uuid;not null;index"                    json:"proposer_id"`
	ProposerSlotID string         `gorm:"type:uuid;not null;index"                    json:"proposer_slot_id"`
	RecipientID    string         `gorm:"type:uuid;not null;index"                    json:"recipient_id"`
	TargetSlotID   string         `gorm:"type:uuid;not null;index"                    json:"target_slot_id"`
	Status         ProposalStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	RespondedAt    *time.Time     `json:"responded_at,omitempty"`
	BaseModel

	Proposer     *User `gorm:"foreignKey:ProposerID;references:UserID"      json:"proposer,omitempty"`
	Recipient    *User `gorm:"foreignKey:RecipientID;references:UserID"     json:"recipient,omitempty"`
	ProposerSlot *Slot `gorm:"foreignKey:ProposerSlotID;references:SlotID"  json:"proposer_slot,omitempty"`
	TargetSlot   *Slot `gorm:"foreignKey:TargetSlotID;references:SlotID"    json:"target_slot,omitempty"`
}

// TableName table name
func (ExchangeProposal) TableName() string { return "exchange_proposals" }

// BeforeCreate assigns the primary key
func (p *ExchangeProposal) BeforeCreate(_ *gorm.DB) error {
	newID(&p.ProposalID)
	return nil
}
