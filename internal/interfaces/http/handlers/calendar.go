// internal/interfaces/http/handlers/calendar.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/calendar"
	"github.com/zonagamer/zonagamer-backend/internal/interfaces/http/middleware"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// CalendarHandler handles admin calendar endpoints
type CalendarHandler struct {
	calendarService *calendar.Service
	config          *config.Config
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(db *gorm.DB, cfg *config.Config) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendar.NewService(db, cfg),
		config:          cfg,
	}
}

// CreateEvent handles POST /calendar/eventos
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	var req calendar.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.calendarService.CreateEvent(adminID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Event created successfully", event)
}

// GetEvents handles GET /calendar/eventos
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	events, err := h.calendarService.GetEvents()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Events retrieved successfully", events)
}

// GetPendingEvents handles GET /calendar/eventos/pendientes
func (h *CalendarHandler) GetPendingEvents(c *gin.Context) {
	events, err := h.calendarService.GetPendingEvents()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Pending events retrieved successfully", events)
}

// GetEventsByDateRange handles GET /calendar/eventos/rango?inicio=...&fin=...
func (h *CalendarHandler) GetEventsByDateRange(c *gin.Context) {
	from, err := parseDateParam(c.Query("inicio"))
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDateParam(c.Query("fin"))
	if err != nil {
		respondError(c, err)
		return
	}

	events, err := h.calendarService.GetEventsByDateRange(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Events retrieved successfully", events)
}

// GetUpcomingEvents handles GET /calendar/eventos/proximos?days=7
func (h *CalendarHandler) GetUpcomingEvents(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	events, err := h.calendarService.GetUpcomingEvents(days)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Upcoming events retrieved successfully", events)
}

// GetEvent handles GET /calendar/evento/:id
func (h *CalendarHandler) GetEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.calendarService.GetEvent(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Event retrieved successfully", event)
}

// UpdateEvent handles PUT /calendar/evento/:id
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req calendar.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.calendarService.UpdateEvent(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Event updated successfully", event)
}

// CompleteEvent handles PUT /calendar/events/:id/complete
func (h *CalendarHandler) CompleteEvent(c *gin.Context) {
	h.setCompleted(c, true, "Event marked as completed")
}

// PendingEvent handles PUT /calendar/events/:id/pending
func (h *CalendarHandler) PendingEvent(c *gin.Context) {
	h.setCompleted(c, false, "Event marked as pending")
}

func (h *CalendarHandler) setCompleted(c *gin.Context, completed bool, message string) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.calendarService.SetCompleted(id, completed)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, message, event)
}

// DeleteEvent handles DELETE /calendar/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.calendarService.DeleteEvent(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Event deleted successfully", nil)
}

// GetStats handles GET /calendar/stats
func (h *CalendarHandler) GetStats(c *gin.Context) {
	stats, err := h.calendarService.GetStats()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Calendar statistics retrieved successfully", stats)
}

// parseDateParam accepts RFC 3339 timestamps or plain dates.
func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, apperror.New(apperror.CodeValidation, "missing date parameter")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.New(apperror.CodeValidation, "invalid date format, use YYYY-MM-DD or RFC 3339")
}
