// internal/domain/calendar/service.go
package calendar

import (
	"errors"
	"time"

	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Default times applied to date-only inputs: events start at 09:00
// and end at 18:00 local time.
const (
	defaultStartHour = 9
	defaultEndHour   = 18
)

// Service handles calendar business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new calendar service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// EventRequest represents event creation and update data
type EventRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=100"`
	Description string     `json:"description" binding:"max=500"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Type        EventType  `json:"type" binding:"required"`
	Completed   bool       `json:"completed"`
}

// CalendarStats summarizes event completion state
type CalendarStats struct {
	TotalEvents     int64 `json:"total_events"`
	PendingEvents   int64 `json:"pending_events"`
	CompletedEvents int64 `json:"completed_events"`
}

// normalizeDates applies the default times to date-only inputs and
// validates the range.
func normalizeDates(startsAt time.Time, endsAt *time.Time) (time.Time, *time.Time, error) {
	if startsAt.Hour() == 0 && startsAt.Minute() == 0 {
		startsAt = time.Date(startsAt.Year(), startsAt.Month(), startsAt.Day(),
			defaultStartHour, 0, 0, 0, startsAt.Location())
	}

	if endsAt != nil {
		end := *endsAt
		if end.Hour() == 0 && end.Minute() == 0 {
			end = time.Date(end.Year(), end.Month(), end.Day(),
				defaultEndHour, 0, 0, 0, end.Location())
		}
		if end.Before(startsAt) {
			return time.Time{}, nil, apperror.New(apperror.CodeValidation,
				"end date cannot be before start date")
		}
		endsAt = &end
	}

	return startsAt, endsAt, nil
}

// CreateEvent creates a calendar event owned by the acting admin
func (s *Service) CreateEvent(createdBy uint, req *EventRequest) (*Event, error) {
	if !IsValidEventType(req.Type) {
		return nil, apperror.New(apperror.CodeValidation, "unknown event type %s", req.Type)
	}

	startsAt, endsAt, err := normalizeDates(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	event := Event{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Type:        req.Type,
		Completed:   false,
		CreatedBy:   createdBy,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to create event")
	}
	return &event, nil
}

// GetEvents retrieves all events ordered by start date
func (s *Service) GetEvents() ([]Event, error) {
	var events []Event
	if err := s.db.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve events")
	}
	return events, nil
}

// GetPendingEvents retrieves events not yet marked completed
func (s *Service) GetPendingEvents() ([]Event, error) {
	var events []Event
	if err := s.db.Where("completed = ?", false).Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve pending events")
	}
	return events, nil
}

// GetEventsByDateRange retrieves events starting within [from, to]
func (s *Service) GetEventsByDateRange(from, to time.Time) ([]Event, error) {
	if to.Before(from) {
		return nil, apperror.New(apperror.CodeValidation, "end date cannot be before start date")
	}

	var events []Event
	err := s.db.Where("starts_at >= ? AND starts_at <= ?", from, to).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to retrieve events")
	}
	return events, nil
}

// GetUpcomingEvents retrieves events starting within the next days
func (s *Service) GetUpcomingEvents(days int) ([]Event, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	return s.GetEventsByDateRange(now, now.AddDate(0, 0, days))
}

// GetEvent retrieves a single event by ID
func (s *Service) GetEvent(id uint) (*Event, error) {
	var event Event
	result := s.db.Where("id = ?", id).First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "event %d not found", id)
		}
		return nil, apperror.Wrap(result.Error, apperror.CodeInternal, "failed to retrieve event")
	}
	return &event, nil
}

// UpdateEvent replaces the mutable fields of an event
func (s *Service) UpdateEvent(id uint, req *EventRequest) (*Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if !IsValidEventType(req.Type) {
		return nil, apperror.New(apperror.CodeValidation, "unknown event type %s", req.Type)
	}

	startsAt, endsAt, err := normalizeDates(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"starts_at":   startsAt,
		"ends_at":     endsAt,
		"type":        req.Type,
		"completed":   req.Completed,
	}
	if err := s.db.Model(event).Updates(updates).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update event")
	}
	return s.GetEvent(id)
}

// SetCompleted marks an event completed or pending
func (s *Service) SetCompleted(id uint, completed bool) (*Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(event).Update("completed", completed).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to update event")
	}
	event.Completed = completed
	return event, nil
}

// DeleteEvent removes an event
func (s *Service) DeleteEvent(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return apperror.Wrap(result.Error, apperror.CodeInternal, "failed to delete event")
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "event %d not found", id)
	}
	return nil
}

// GetStats summarizes total, pending and completed events
func (s *Service) GetStats() (*CalendarStats, error) {
	var stats CalendarStats
	if err := s.db.Model(&Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count events")
	}
	if err := s.db.Model(&Event{}).Where("completed = ?", false).Count(&stats.PendingEvents).Error; err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to count pending events")
	}
	stats.CompletedEvents = stats.TotalEvents - stats.PendingEvents
	return &stats, nil
}
