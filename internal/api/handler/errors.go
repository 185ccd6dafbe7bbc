package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/Sarwan-Projects/SlotSwapper/pkg/errors"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/response"
)

// Business code ranges, one per module:
//
//	10xxx  common (validation, auth, rate limit)
//	11xxx  auth
//	12xxx  slots
//	13xxx  swap requests
//	14xxx  calendar
//	15xxx  export
//
// Within a module the last digits name the error kind.
const (
	moduleAuth     = 11000
	moduleSlot     = 12000
	moduleExchange = 13000
	moduleCalendar = 14000
	moduleExport   = 15000
)

const (
	offsetValidation   = 1
	offsetForbidden    = 3
	offsetNotFound     = 4
	offsetInvalidState = 9
	offsetConflict     = 10
)

// handleServiceError writes the response for a service error. Business errors
// carry their own message; anything else becomes a generic 500.
func handleServiceError(c *gin.Context, module int, err error) {
	_ = c.Error(err)

	msg := pkgerrors.Message(err)
	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrValidation:
		response.BadRequest(c, module+offsetValidation, msg)
	case pkgerrors.ErrNotFound:
		response.NotFound(c, module+offsetNotFound, msg)
	case pkgerrors.ErrForbidden:
		response.Forbidden(c, module+offsetForbidden, msg)
	case pkgerrors.ErrInvalidState:
		response.Conflict(c, module+offsetInvalidState, msg)
	case pkgerrors.ErrConflict:
		response.Conflict(c, module+offsetConflict, msg)
	default:
		response.InternalError(c)
	}
}

// bindError reports a request that failed binding or validation
func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid request parameters", err.Error())
}
