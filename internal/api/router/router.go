package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/config"
	"github.com/Sarwan-Projects/SlotSwapper/internal/api/handler"
	"github.com/Sarwan-Projects/SlotSwapper/internal/api/middleware"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/jwt"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/redis"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup builds the gin engine. rdb may be nil when Redis is disabled; token
// revocation and rate limiting are then skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// keep the interfaces nil rather than holding a nil *redis.Client
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── Health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// Auth (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(limiter, authRateLimit, authRateWindow), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(limiter, authRateLimit, authRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// Slots
			slots := authorized.Group("/slots")
			{
				slots.GET("", h.Slot.ListSlots)
				slots.POST("", h.Slot.CreateSlot)
				slots.GET("/export.ics", h.Slot.ExportICS)
				slots.POST("/import", h.Slot.ImportICS)
				slots.GET("/:id", h.Slot.GetSlot)
				slots.PUT("/:id", h.Slot.UpdateSlot)
				slots.DELETE("/:id", h.Slot.DeleteSlot)
			}

			// Exchanges
			authorized.GET("/swappable-slots", h.Exchange.ListSwappableSlots)
			swaps := authorized.Group("/swap-requests")
			{
				swaps.POST("", h.Exchange.CreateSwapRequest)
				swaps.GET("/incoming", h.Exchange.ListIncoming)
				swaps.GET("/outgoing", h.Exchange.ListOutgoing)
				swaps.GET("/history", h.Exchange.History)
				swaps.GET("/:id", h.Exchange.GetSwapRequest)
				swaps.POST("/:id/respond", h.Exchange.RespondSwapRequest)
			}

			// Export
			authorized.GET("/export/exchanges", h.Export.ExportExchanges)

			// Live notifications
			authorized.GET("/ws", h.WS.Connect)
		}
	}

	return r
}
