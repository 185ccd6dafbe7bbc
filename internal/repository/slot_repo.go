package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
)

// SlotRepository slot store data access.
//
// Every write is a compare-and-set on the version column; a write that matches
// no row returns pkgerrors.ErrOptimisticLock.
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Slot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Slot, error)
	// ListOffered every OFFERED slot with its owner, in one read
	ListOffered(ctx context.Context) ([]model.Slot, error)
	// Update writes the owner-editable fields; it never matches a LOCKED row
	Update(ctx context.Context, slot *model.Slot) error
	// SetStatusAndOwner privileged transition used only by the exchange coordinator.
	// It matches only when the row still has status from.
	SetStatusAndOwner(ctx context.Context, slot *model.Slot, from, to model.SlotStatus, ownerID string) error
	// Delete removes the slot; it never matches a LOCKED row
	Delete(ctx context.Context, slot *model.Slot) error
}

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo creates a SlotRepository
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, slot *model.Slot) error {
	if slot.Version == 0 {
		slot.Version = 1
	}
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepo) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("slot_id = ? AND owner_id = ?", id, ownerID).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) ListOffered(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", model.SlotOffered).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *slotRepo) Update(ctx context.Context, slot *model.Slot) error {
	oldVersion := slot.Version
	result := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ? AND version = ? AND status <> ?", slot.SlotID, oldVersion, model.SlotLocked).
		Updates(map[string]interface{}{
			"title":      slot.Title,
			"start_time": slot.StartTime,
			"end_time":   slot.EndTime,
			"status":     slot.Status,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version = oldVersion + 1
	return nil
}

func (r *slotRepo) SetStatusAndOwner(ctx context.Context, slot *model.Slot, from, to model.SlotStatus, ownerID string) error {
	oldVersion := slot.Version
	result := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ? AND version = ? AND status = ?", slot.SlotID, oldVersion, from).
		Updates(map[string]interface{}{
			"status":   to,
			"owner_id": ownerID,
			"version":  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Status = to
	slot.OwnerID = ownerID
	slot.Version = oldVersion + 1
	return nil
}

func (r *slotRepo) Delete(ctx context.Context, slot *model.Slot) error {
	result := r.db.WithContext(ctx).
		Where("slot_id = ? AND owner_id = ? AND version = ? AND status <> ?",
			slot.SlotID, slot.OwnerID, slot.Version, model.SlotLocked).
		Delete(&model.Slot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
