package service

import (
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/config"
	"github.com/Sarwan-Projects/SlotSwapper/internal/repository"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/jwt"
)

// Service aggregate of every service
type Service struct {
	Auth     AuthService
	Slot     SlotService
	Exchange ExchangeService
	Calendar CalendarService
	Export   ExportService
}

// NewService builds the aggregate. blacklist may be nil when Redis is disabled.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Slot:     NewSlotService(repo, logger),
		Exchange: NewExchangeService(repo, notifier, logger),
		Calendar: NewCalendarService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}
