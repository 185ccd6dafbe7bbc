package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/config"
	"github.com/Sarwan-Projects/SlotSwapper/internal/notify"
)

// WSHandler upgrades authenticated requests to notification sockets
type WSHandler struct {
	registry *notify.Registry
	cfg      *config.NotifyConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler creates a WSHandler. Browser upgrades are accepted only from
// the configured CORS origins; requests without an Origin header pass.
func NewWSHandler(registry *notify.Registry, cfg *config.NotifyConfig, allowOrigins []string, logger *zap.Logger) *WSHandler {
	origins := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}

	return &WSHandler{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

// Connect registers the socket for the caller until it closes. A newer
// connection for the same user replaces this one.
// GET /api/v1/ws
func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Debug("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	conn := notify.NewWSConn(userID, ws, h.cfg, h.logger)
	h.registry.Register(conn)
	h.logger.Debug("websocket connected", zap.String("user_id", userID))

	conn.Run()

	h.registry.Unregister(conn)
	h.logger.Debug("websocket disconnected", zap.String("user_id", userID))
}
