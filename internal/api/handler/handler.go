package handler

import (
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/config"
	"github.com/Sarwan-Projects/SlotSwapper/internal/notify"
	"github.com/Sarwan-Projects/SlotSwapper/internal/service"
)

// Handler aggregate of every HTTP handler
type Handler struct {
	Auth     *AuthHandler
	Slot     *SlotHandler
	Exchange *ExchangeHandler
	Export   *ExportHandler
	WS       *WSHandler
}

// NewHandler builds the aggregate
func NewHandler(cfg *config.Config, svc *service.Service, registry *notify.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth),
		Slot:     NewSlotHandler(svc.Slot, svc.Calendar),
		Exchange: NewExchangeHandler(svc.Exchange),
		Export:   NewExportHandler(svc.Export),
		WS:       NewWSHandler(registry, &cfg.Notify, cfg.Server.CORS.AllowOrigins, logger),
	}
}
