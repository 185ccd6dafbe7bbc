package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	"github.com/Sarwan-Projects/SlotSwapper/internal/notify"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
)

// Notifier best-effort push to a user's live connection; *notify.Dispatcher satisfies it
type Notifier interface {
	Publish(ctx context.Context, userID string, ev notify.Event)
}

// ExchangeService the exchange coordinator.
//
// Propose and Respond each run as one transaction over two slots and one
// proposal. Every slot transition is a compare-and-set on status and version,
// so two concurrent proposals can never lock the same slot; the loser gets a
// Conflict. Notifications are sent after commit and never affect the outcome.
type ExchangeService interface {
	ListSwapSurface(ctx context.Context, userID string) (*dto.SwapSurfaceResponse, error)
	Propose(ctx context.Context, proposerID string, req *dto.CreateSwapRequest) (*dto.ExchangeResponse, error)
	Respond(ctx context.Context, responderID, proposalID string, accept bool) (*dto.ExchangeResponse, error)
	ListIncoming(ctx context.Context, userID string) ([]dto.ExchangeResponse, error)
	ListOutgoing(ctx context.Context, userID string) ([]dto.ExchangeResponse, error)
	// Get is visible to the two participants only; anyone else gets ErrProposalNotFound
	Get(ctx context.Context, userID, proposalID string) (*dto.ExchangeResponse, error)
	History(ctx context.Context, userID string) ([]dto.ExchangeResponse, error)
}

type exchangeService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewExchangeService creates an ExchangeService
func NewExchangeService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) ExchangeService {
	return &exchangeService{repo: repo, notifier: notifier, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ListSwapSurface
// ═══════════════════════════════════════════════════════════

func (s *exchangeService) ListSwapSurface(ctx context.Context, userID string) (*dto.SwapSurfaceResponse, error) {
	// one read, split by owner, so a slot never shows up in both lists
	offered, err := s.repo.Slot.ListOffered(ctx)
	if err != nil {
		s.logger.Error("list swap surface failed", zap.Error(err))
		return nil, err
	}

	var available, mine []model.Slot
	for _, slot := range offered {
		if slot.OwnerID == userID {
			mine = append(mine, slot)
		} else {
			available = append(available, slot)
		}
	}

	return &dto.SwapSurfaceResponse{
		Available: toSlotResponses(available),
		Mine:      toSlotResponses(mine),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Propose
// ═══════════════════════════════════════════════════════════
//
// The proposal row is written before either slot is locked, so a LOCKED slot
// always has a discoverable PENDING proposal.

func (s *exchangeService) Propose(ctx context.Context, proposerID string, req *dto.CreateSwapRequest) (*dto.ExchangeResponse, error) {
	var proposal *model.ExchangeProposal

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. the proposer's own slot
		mySlot, err := tx.Slot.GetByIDAndOwner(ctx, req.MySlotID, proposerID)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound)
		}
		// 2. must be OFFERED
		if mySlot.Status != model.SlotOffered {
			return ErrOwnSlotNotOffered
		}

		// 3. target slot, any owner
		target, err := tx.Slot.GetByID(ctx, req.TheirSlotID)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound)
		}
		// 4. must be OFFERED
		if target.Status != model.SlotOffered {
			return ErrTargetNotOffered
		}
		// 5. no self-exchange
		if target.OwnerID == proposerID {
			return ErrSelfExchange
		}

		// 6. proposal record first
		p := &model.ExchangeProposal{
			ProposerID:     proposerID,
			ProposerSlotID: mySlot.SlotID,
			RecipientID:    target.OwnerID,
			TargetSlotID:   target.SlotID,
			Status:         model.ProposalPending,
		}
		if err := tx.Exchange.Create(ctx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotAlreadyPending
			}
			return err
		}

		// 7. lock both slots, OFFERED -> LOCKED, owners unchanged
		if err := tx.Slot.SetStatusAndOwner(ctx, mySlot, model.SlotOffered, model.SlotLocked, mySlot.OwnerID); err != nil {
			return err
		}
		if err := tx.Slot.SetStatusAndOwner(ctx, target, model.SlotOffered, model.SlotLocked, target.OwnerID); err != nil {
			return err
		}

		proposal = p
		return nil
	})
	if err != nil {
		return nil, s.logUnexpected("propose exchange", err)
	}

	resolved := s.resolve(ctx, proposal)
	s.logger.Info("swap request created",
		zap.String("proposal_id", resolved.ProposalID),
		zap.String("proposer_id", resolved.ProposerID),
		zap.String("recipient_id", resolved.RecipientID),
	)

	// 8. notify the recipient
	resp := toExchangeResponse(resolved)
	s.notifier.Publish(ctx, resolved.RecipientID, notify.Event{
		Type:    notify.EventNewSwapRequest,
		Message: fmt.Sprintf("%s wants to swap with you!", displayName(resolved.Proposer)),
		Request: resp,
	})

	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// Respond
// ═══════════════════════════════════════════════════════════

func (s *exchangeService) Respond(ctx context.Context, responderID, proposalID string, accept bool) (*dto.ExchangeResponse, error) {
	var proposal *model.ExchangeProposal

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. load
		p, err := tx.Exchange.GetByID(ctx, proposalID)
		if err != nil {
			return notFoundAs(err, ErrProposalNotFound)
		}
		// 2. only the recipient decides
		if p.RecipientID != responderID {
			return ErrNotRecipient
		}
		// 3. terminal proposals are never resolved twice
		if p.Status != model.ProposalPending {
			return ErrProposalNotPending
		}

		// both slots must still be locked to this pair
		proposerSlot, err := tx.Slot.GetByID(ctx, p.ProposerSlotID)
		if err != nil {
			return notFoundAs(err, ErrSlotsOutOfSync)
		}
		targetSlot, err := tx.Slot.GetByID(ctx, p.TargetSlotID)
		if err != nil {
			return notFoundAs(err, ErrSlotsOutOfSync)
		}
		if proposerSlot.Status != model.SlotLocked || targetSlot.Status != model.SlotLocked ||
			proposerSlot.OwnerID != p.ProposerID || targetSlot.OwnerID != p.RecipientID {
			return ErrSlotsOutOfSync
		}

		if accept {
			// 4. swap owners, both back to OCCUPIED
			if err := tx.Slot.SetStatusAndOwner(ctx, proposerSlot, model.SlotLocked, model.SlotOccupied, p.RecipientID); err != nil {
				return err
			}
			if err := tx.Slot.SetStatusAndOwner(ctx, targetSlot, model.SlotLocked, model.SlotOccupied, p.ProposerID); err != nil {
				return err
			}
			if err := tx.Exchange.SetStatus(ctx, p, model.ProposalPending, model.ProposalAccepted); err != nil {
				return err
			}
		} else {
			// 5. owners unchanged, both back to OFFERED
			if err := tx.Slot.SetStatusAndOwner(ctx, proposerSlot, model.SlotLocked, model.SlotOffered, proposerSlot.OwnerID); err != nil {
				return err
			}
			if err := tx.Slot.SetStatusAndOwner(ctx, targetSlot, model.SlotLocked, model.SlotOffered, targetSlot.OwnerID); err != nil {
				return err
			}
			if err := tx.Exchange.SetStatus(ctx, p, model.ProposalPending, model.ProposalDeclined); err != nil {
				return err
			}
		}

		proposal = p
		return nil
	})
	if err != nil {
		return nil, s.logUnexpected("respond to exchange", err)
	}

	resolved := s.resolve(ctx, proposal)
	s.logger.Info("swap request resolved",
		zap.String("proposal_id", resolved.ProposalID),
		zap.String("status", string(resolved.Status)),
	)

	resp := toExchangeResponse(resolved)
	ev := notify.Event{
		Type:    notify.EventSwapAccepted,
		Message: fmt.Sprintf("%s accepted your swap request!", displayName(resolved.Recipient)),
		Request: resp,
	}
	if !accept {
		ev.Type = notify.EventSwapRejected
		ev.Message = fmt.Sprintf("%s rejected your swap request", displayName(resolved.Recipient))
	}
	s.notifier.Publish(ctx, resolved.ProposerID, ev)

	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// Reads
// ═══════════════════════════════════════════════════════════

func (s *exchangeService) ListIncoming(ctx context.Context, userID string) ([]dto.ExchangeResponse, error) {
	ps, err := s.repo.Exchange.ListIncoming(ctx, userID)
	if err != nil {
		s.logger.Error("list incoming swap requests failed", zap.Error(err))
		return nil, err
	}
	return toExchangeResponses(ps), nil
}

func (s *exchangeService) ListOutgoing(ctx context.Context, userID string) ([]dto.ExchangeResponse, error) {
	ps, err := s.repo.Exchange.ListOutgoing(ctx, userID)
	if err != nil {
		s.logger.Error("list outgoing swap requests failed", zap.Error(err))
		return nil, err
	}
	return toExchangeResponses(ps), nil
}

func (s *exchangeService) Get(ctx context.Context, userID, proposalID string) (*dto.ExchangeResponse, error) {
	p, err := s.repo.Exchange.GetByID(ctx, proposalID)
	if err != nil {
		return nil, s.logUnexpected("get swap request", notFoundAs(err, ErrProposalNotFound))
	}
	if p.ProposerID != userID && p.RecipientID != userID {
		return nil, ErrProposalNotFound
	}
	resp := toExchangeResponse(p)
	return &resp, nil
}

func (s *exchangeService) History(ctx context.Context, userID string) ([]dto.ExchangeResponse, error) {
	ps, err := s.repo.Exchange.ListByParticipant(ctx, userID)
	if err != nil {
		s.logger.Error("list swap history failed", zap.Error(err))
		return nil, err
	}
	return toExchangeResponses(ps), nil
}

// ── helpers ──

// resolve reloads the committed proposal with both parties and both slots.
// A failed reload falls back to the bare record; the transition already committed.
func (s *exchangeService) resolve(ctx context.Context, p *model.ExchangeProposal) *model.ExchangeProposal {
	full, err := s.repo.Exchange.GetByID(ctx, p.ProposalID)
	if err != nil {
		s.logger.Warn("reload swap request failed", zap.String("proposal_id", p.ProposalID), zap.Error(err))
		return p
	}
	return full
}

// logUnexpected logs errors that are not business errors and passes err through
func (s *exchangeService) logUnexpected(op string, err error) error {
	if pkgerrors.Kind(err) == nil {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	return err
}

// notFoundAs maps gorm.ErrRecordNotFound to target
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func displayName(u *model.User) string {
	if u == nil || u.Name == "" {
		return "Someone"
	}
	return u.Name
}
