package service

import (
	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
)

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.Name, Email: u.Email}
}

func toSlotResponse(s *model.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:        s.SlotID,
		Title:     s.Title,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    string(s.Status),
		OwnerID:   s.OwnerID,
		Owner:     toUserBrief(s.Owner),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSlotResponses(slots []model.Slot) []dto.SlotResponse {
	out := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out
}

func toSlotSnapshot(s *model.Slot) *dto.SlotResponse {
	if s == nil {
		return nil
	}
	r := toSlotResponse(s)
	return &r
}

func toExchangeResponse(p *model.ExchangeProposal) dto.ExchangeResponse {
	return dto.ExchangeResponse{
		ID:             p.ProposalID,
		Status:         string(p.Status),
		ProposerID:     p.ProposerID,
		ProposerSlotID: p.ProposerSlotID,
		RecipientID:    p.RecipientID,
		TargetSlotID:   p.TargetSlotID,
		Proposer:       toUserBrief(p.Proposer),
		Recipient:      toUserBrief(p.Recipient),
		ProposerSlot:   toSlotSnapshot(p.ProposerSlot),
		TargetSlot:     toSlotSnapshot(p.TargetSlot),
		CreatedAt:      p.CreatedAt,
		RespondedAt:    p.RespondedAt,
	}
}

func toExchangeResponses(ps []model.ExchangeProposal) []dto.ExchangeResponse {
	out := make([]dto.ExchangeResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toExchangeResponse(&ps[i]))
	}
	return out
}
