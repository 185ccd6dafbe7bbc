package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sarwan-Projects/SlotSwapper/pkg/response"
)

// Context keys written by middleware.JWTAuth
const (
	ctxUserID   = "user_id"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetUserID extracts the authenticated user ID from the gin context.
// When it is missing a 401 has already been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// mustGetToken returns the jti and expiry of the access token used for this request
func mustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(ctxTokenJTI)
	exp, ok := c.Get(ctxTokenExp)
	if jti == "" || !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", time.Time{}, false
	}
	expiresAt, ok := exp.(time.Time)
	if !ok {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", time.Time{}, false
	}
	return jti, expiresAt, true
}

// mustGetPathID returns the :id path parameter. Record IDs are UUIDs, so any
// other value is answered with notFound without reaching storage.
func mustGetPathID(c *gin.Context, module int, notFound error) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		handleServiceError(c, module, notFound)
		return "", false
	}
	return id, true
}
