package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
)

// ExchangeRepository exchange ledger data access. Proposals are never deleted.
type ExchangeRepository interface {
	Create(ctx context.Context, proposal *model.ExchangeProposal) error
	GetByID(ctx context.Context, id string) (*model.ExchangeProposal, error)
	// ListIncoming PENDING proposals addressed to userID, newest first
	ListIncoming(ctx context.Context, userID string) ([]model.ExchangeProposal, error)
	// ListOutgoing PENDING proposals made by userID, newest first
	ListOutgoing(ctx context.Context, userID string) ([]model.ExchangeProposal, error)
	// ListByParticipant every proposal userID took part in, newest first
	ListByParticipant(ctx context.Context, userID string) ([]model.ExchangeProposal, error)
	// SetStatus privileged transition used only by the exchange coordinator.
	// It matches only when the row still has status from.
	SetStatus(ctx context.Context, proposal *model.ExchangeProposal, from, to model.ProposalStatus) error
}

type exchangeRepo struct {
	db *gorm.DB
}

// NewExchangeRepo creates an ExchangeRepository
func NewExchangeRepo(db *gorm.DB) ExchangeRepository {
	return &exchangeRepo{db: db}
}

// withParties preloads both users and both slots. Slots are loaded unscoped so
// history keeps pointing at slots their owners later deleted.
func withParties(db *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return db.
		Preload("Proposer").
		Preload("Recipient").
		Preload("ProposerSlot", unscoped).
		Preload("TargetSlot", unscoped)
}

func (r *exchangeRepo) Create(ctx context.Context, proposal *model.ExchangeProposal) error {
	if proposal.Status == "" {
		proposal.Status = model.ProposalPending
	}
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *exchangeRepo) GetByID(ctx context.Context, id string) (*model.ExchangeProposal, error) {
	var proposal model.ExchangeProposal
	err := withParties(r.db.WithContext(ctx)).
		Where("proposal_id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *exchangeRepo) ListIncoming(ctx context.Context, userID string) ([]model.ExchangeProposal, error) {
	var proposals []model.ExchangeProposal
	err := withParties(r.db.WithContext(ctx)).
		Where("recipient_id = ? AND status = ?", userID, model.ProposalPending).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *exchangeRepo) ListOutgoing(ctx context.Context, userID string) ([]model.ExchangeProposal, error) {
	var proposals []model.ExchangeProposal
	err := withParties(r.db.WithContext(ctx)).
		Where("proposer_id = ? AND status = ?", userID, model.ProposalPending).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *exchangeRepo) ListByParticipant(ctx context.Context, userID string) ([]model.ExchangeProposal, error) {
	var proposals []model.ExchangeProposal
	err := withParties(r.db.WithContext(ctx)).
		Where("proposer_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *exchangeRepo) SetStatus(ctx context.Context, proposal *model.ExchangeProposal, from, to model.ProposalStatus) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.ExchangeProposal{}).
		Where("proposal_id = ? AND status = ?", proposal.ProposalID, from).
		Updates(map[string]interface{}{
			"status":       to,
			"responded_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	proposal.Status = to
	proposal.RespondedAt = &now
	return nil
}
