package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/service"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/response"
)

// SlotHandler the caller's own slots, including calendar import/export
type SlotHandler struct {
	slotSvc     service.SlotService
	calendarSvc service.CalendarService
}

// NewSlotHandler creates a SlotHandler
func NewSlotHandler(slotSvc service.SlotService, calendarSvc service.CalendarService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc, calendarSvc: calendarSvc}
}

// ────── CRUD ──────

// ListSlots the caller's slots, earliest first
// GET /api/v1/slots
func (h *SlotHandler) ListSlots(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slots, err := h.slotSvc.List(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, moduleSlot, err)
		return
	}

	response.OK(c, slots)
}

// GetSlot
// GET /api/v1/slots/:id
func (h *SlotHandler) GetSlot(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustGetPathID(c, moduleSlot, service.ErrSlotNotFound)
	if !ok {
		return
	}

	slot, err := h.slotSvc.Get(c.Request.Context(), id, userID)
	if err != nil {
		handleServiceError(c, moduleSlot, err)
		return
	}

	response.OK(c, slot)
}

// CreateSlot
// POST /api/v1/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	slot, err := h.slotSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, moduleSlot, err)
		return
	}

	response.Created(c, slot)
}

// UpdateSlot typed partial update
// PUT /api/v1/slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustGetPathID(c, moduleSlot, service.ErrSlotNotFound)
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	slot, err := h.slotSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		handleServiceError(c, moduleSlot, err)
		return
	}

	response.OK(c, slot)
}

// DeleteSlot
// DELETE /api/v1/slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustGetPathID(c, moduleSlot, service.ErrSlotNotFound)
	if !ok {
		return
	}

	if err := h.slotSvc.Delete(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, moduleSlot, err)
		return
	}

	response.OK(c, nil)
}

// ────── Calendar ──────

// ExportICS the caller's slots as an iCalendar feed
// GET /api/v1/slots/export.ics
func (h *SlotHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.ExportICS(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, moduleCalendar, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="slots.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// ImportICS creates OCCUPIED slots from an uploaded .ics file
// POST /api/v1/slots/import (multipart/form-data, field "file")
func (h *SlotHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(c, moduleCalendar+offsetValidation, "an .ics file is required in field \"file\"")
			return
		}
		bindError(c, err)
		return
	}
	defer file.Close()

	result, err := h.calendarSvc.ImportICS(c.Request.Context(), userID, file)
	if err != nil {
		handleServiceError(c, moduleCalendar, err)
		return
	}

	response.Created(c, result)
}
