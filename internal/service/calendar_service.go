package service

import (
	"context"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/model"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
)

const icsProductID = "-//SlotSwapper//Slots//EN"

// CalendarService iCalendar feed of a user's slots and bulk import of events as slots
type CalendarService interface {
	ExportICS(ctx context.Context, userID string) (string, error)
	// ImportICS stores every valid event as an OCCUPIED slot; invalid events are skipped and counted
	ImportICS(ctx context.Context, userID string, reader io.Reader) (*dto.ImportSlotsResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService creates a CalendarService
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// ────── Export ──────

func (s *calendarService) ExportICS(ctx context.Context, userID string) (string, error) {
	slots, err := s.repo.Slot.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("list slots for calendar failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	now := time.Now().UTC()
	for _, sl := range slots {
		ev := cal.AddEvent(sl.SlotID + "@slotswapper")
		ev.SetDtStampTime(now)
		ev.SetStartAt(sl.StartTime.UTC())
		ev.SetEndAt(sl.EndTime.UTC())
		ev.SetSummary(sl.Title)
		ev.SetDescription("Status: " + string(sl.Status))
	}

	return cal.Serialize(), nil
}

// ────── Import ──────

func (s *calendarService) ImportICS(ctx context.Context, userID string, reader io.Reader) (*dto.ImportSlotsResponse, error) {
	// 1. parse
	events, skipped, err := parseICS(reader)
	if err != nil {
		s.logger.Debug("reject calendar upload", zap.Error(err))
		return nil, ErrCalendarInvalid
	}

	// 2. store all valid events at once
	slots := make([]*model.Slot, 0, len(events))
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, evt := range events {
			slot := &model.Slot{
				Title:     evt.Title,
				StartTime: evt.Start,
				EndTime:   evt.End,
				Status:    model.SlotOccupied,
				OwnerID:   userID,
			}
			if err := tx.Slot.Create(ctx, slot); err != nil {
				return err
			}
			slots = append(slots, slot)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("import slots failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportSlotsResponse{
		Imported: len(slots),
		Skipped:  skipped,
		Slots:    make([]dto.SlotResponse, 0, len(slots)),
	}
	for _, sl := range slots {
		resp.Slots = append(resp.Slots, toSlotResponse(sl))
	}

	s.logger.Info("calendar imported",
		zap.String("user_id", userID),
		zap.Int("imported", resp.Imported),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}
