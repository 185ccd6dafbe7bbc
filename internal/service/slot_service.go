package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
)

// SlotService owner-facing slot store operations.
//
// Every mutation refuses LOCKED slots with ErrSlotLocked; only the exchange
// coordinator moves a slot into or out of LOCKED.
type SlotService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	List(ctx context.Context, ownerID string) ([]dto.SlotResponse, error)
	Get(ctx context.Context, id, ownerID string) (*dto.SlotResponse, error)
	Update(ctx context.Context, id, ownerID string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type slotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSlotService creates a SlotService
func NewSlotService(repo *repository.Repository, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, logger: logger}
}

// validateSlotFields checks the invariants every stored slot satisfies
func validateSlotFields(title string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return ErrSlotTitleRequired
	}
	if !end.After(start) {
		return ErrSlotInvalidRange
	}
	return nil
}

// ────── Create ──────

func (s *slotService) Create(ctx context.Context, ownerID string, req *dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	if err := validateSlotFields(req.Title, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	slot := &model.Slot{
		Title:     strings.TrimSpace(req.Title),
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Status:    model.SlotOccupied,
		OwnerID:   ownerID,
	}
	if err := s.repo.Slot.Create(ctx, slot); err != nil {
		s.logger.Error("create slot failed", zap.Error(err))
		return nil, err
	}

	resp := toSlotResponse(slot)
	return &resp, nil
}

// ────── Read ──────

func (s *slotService) List(ctx context.Context, ownerID string) ([]dto.SlotResponse, error) {
	slots, err := s.repo.Slot.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("list slots failed", zap.Error(err))
		return nil, err
	}
	return toSlotResponses(slots), nil
}

func (s *slotService) Get(ctx context.Context, id, ownerID string) (*dto.SlotResponse, error) {
	slot, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	resp := toSlotResponse(slot)
	return &resp, nil
}

// ────── Update ──────

func (s *slotService) Update(ctx context.Context, id, ownerID string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	slot, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if slot.Status == model.SlotLocked {
		return nil, ErrSlotLocked
	}

	// merge the typed patch
	if req.Title != nil {
		slot.Title = strings.TrimSpace(*req.Title)
	}
	if req.StartTime != nil {
		slot.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		slot.EndTime = req.EndTime.UTC()
	}
	if req.Status != nil {
		status := model.SlotStatus(*req.Status)
		if !status.OwnerSettable() {
			return nil, ErrSlotStatusReserved
		}
		slot.Status = status
	}

	if err := validateSlotFields(slot.Title, slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	// CAS on version; a slot locked since the read fails here as a conflict
	if err := s.repo.Slot.Update(ctx, slot); err != nil {
		return nil, err
	}

	resp := toSlotResponse(slot)
	return &resp, nil
}

// ────── Delete ──────

func (s *slotService) Delete(ctx context.Context, id, ownerID string) error {
	slot, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if slot.Status == model.SlotLocked {
		return ErrSlotLocked
	}
	return s.repo.Slot.Delete(ctx, slot)
}

func (s *slotService) getOwned(ctx context.Context, id, ownerID string) (*model.Slot, error) {
	slot, err := s.repo.Slot.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("load slot failed", zap.String("slot_id", id), zap.Error(err))
		return nil, err
	}
	return slot, nil
}
