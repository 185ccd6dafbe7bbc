package service

import (
	"errors"

	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
)

// ── Auth ──

var (
	// ErrInvalidCredentials and ErrTokenInvalid map to 401, outside the business kinds
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid or expired token")

	ErrEmailTaken   = pkgerrors.New(pkgerrors.ErrConflict, "an account with this email already exists")
	ErrUserNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "user not found")
)

// ── Slot store ──

var (
	ErrSlotNotFound       = pkgerrors.New(pkgerrors.ErrNotFound, "slot not found")
	ErrSlotTitleRequired  = pkgerrors.New(pkgerrors.ErrValidation, "title is required")
	ErrSlotInvalidRange   = pkgerrors.New(pkgerrors.ErrValidation, "end time must be after start time")
	ErrSlotStatusReserved = pkgerrors.New(pkgerrors.ErrValidation, "status can only be set to OCCUPIED or OFFERED")
	ErrSlotLocked         = pkgerrors.New(pkgerrors.ErrConflict, "slot is locked by a pending swap request")
)

// ── Exchange ──

var (
	ErrProposalNotFound   = pkgerrors.New(pkgerrors.ErrNotFound, "swap request not found")
	ErrNotRecipient       = pkgerrors.New(pkgerrors.ErrForbidden, "not authorized to respond to this swap request")
	ErrProposalNotPending = pkgerrors.New(pkgerrors.ErrInvalidState, "swap request already processed")
	ErrOwnSlotNotOffered  = pkgerrors.New(pkgerrors.ErrInvalidState, "your slot must be OFFERED to propose a swap")
	ErrTargetNotOffered   = pkgerrors.New(pkgerrors.ErrInvalidState, "the requested slot is not available for swapping")
	ErrSelfExchange       = pkgerrors.New(pkgerrors.ErrInvalidState, "cannot swap with your own slot")
	ErrSlotsOutOfSync     = pkgerrors.New(pkgerrors.ErrInvalidState, "the slots of this swap request are no longer locked to it")
	ErrSlotAlreadyPending = pkgerrors.New(pkgerrors.ErrConflict, "slot is already part of a pending swap request")
)

// ── Calendar / export ──

var (
	ErrCalendarInvalid    = pkgerrors.New(pkgerrors.ErrValidation, "invalid iCalendar file")
	ErrExportGenerateFail = errors.New("failed to generate spreadsheet")
)
