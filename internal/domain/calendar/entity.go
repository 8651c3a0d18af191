// internal/domain/calendar/entity.go
package calendar

import (
	"time"
)

// EventType classifies a calendar event. Values are the wire names
// used by the admin panel.
type EventType string

const (
	EventTypeMeeting     EventType = "REUNION"
	EventTypeTask        EventType = "TAREA"
	EventTypeMaintenance EventType = "MANTENIMIENTO"
	EventTypeDeadline    EventType = "FECHA_LIMITE"
	EventTypeOther       EventType = "OTROS"
)

var validEventTypes = map[EventType]bool{
	EventTypeMeeting:     true,
	EventTypeTask:        true,
	EventTypeMaintenance: true,
	EventTypeDeadline:    true,
	EventTypeOther:       true,
}

// IsValidEventType reports whether t names a known event type.
func IsValidEventType(t EventType) bool {
	return validEventTypes[t]
}

// Event represents an admin calendar event
type Event struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;size:100" json:"title"`
	Description string     `gorm:"size:500" json:"description"`
	StartsAt    time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Type        EventType  `gorm:"not null;size:20" json:"type"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Event
func (Event) TableName() string {
	return "calendar_events"
}
