package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))
	return NewService(db, &config.Config{})
}

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestCreateEventAppliesDefaultTimes(t *testing.T) {
	svc := newTestService(t)

	end := date(2026, 9, 10, 0, 0)
	event, err := svc.CreateEvent(1, &EventRequest{
		Title:    "Inventario mensual",
		StartsAt: date(2026, 9, 10, 0, 0),
		EndsAt:   &end,
		Type:     EventTypeTask,
	})
	require.NoError(t, err)

	assert.Equal(t, 9, event.StartsAt.Hour())
	require.NotNil(t, event.EndsAt)
	assert.Equal(t, 18, event.EndsAt.Hour())
	assert.False(t, event.Completed)
	assert.Equal(t, uint(1), event.CreatedBy)
}

func TestCreateEventKeepsExplicitTimes(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.CreateEvent(1, &EventRequest{
		Title:    "Reunion proveedores",
		StartsAt: date(2026, 9, 10, 14, 30),
		Type:     EventTypeMeeting,
	})
	require.NoError(t, err)
	assert.Equal(t, 14, event.StartsAt.Hour())
	assert.Equal(t, 30, event.StartsAt.Minute())
	assert.Nil(t, event.EndsAt)
}

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	svc := newTestService(t)

	end := date(2026, 9, 9, 10, 0)
	_, err := svc.CreateEvent(1, &EventRequest{
		Title:    "Mal rango",
		StartsAt: date(2026, 9, 10, 10, 0),
		EndsAt:   &end,
		Type:     EventTypeOther,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestCreateEventRejectsUnknownType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateEvent(1, &EventRequest{
		Title:    "Tipo raro",
		StartsAt: date(2026, 9, 10, 10, 0),
		Type:     "FIESTA",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestGetPendingEvents(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.CreateEvent(1, &EventRequest{
		Title: "Pendiente", StartsAt: date(2026, 9, 10, 10, 0), Type: EventTypeTask,
	})
	require.NoError(t, err)
	_, err = svc.CreateEvent(1, &EventRequest{
		Title: "Hecho", StartsAt: date(2026, 9, 11, 10, 0), Type: EventTypeTask,
	})
	require.NoError(t, err)

	done, err := svc.GetEvents()
	require.NoError(t, err)
	_, err = svc.SetCompleted(done[1].ID, true)
	require.NoError(t, err)

	pending, err := svc.GetPendingEvents()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}

func TestGetEventsByDateRange(t *testing.T) {
	svc := newTestService(t)

	for day := 1; day <= 5; day++ {
		_, err := svc.CreateEvent(1, &EventRequest{
			Title:    fmt.Sprintf("Evento dia %d", day),
			StartsAt: date(2026, 9, day, 10, 0),
			Type:     EventTypeOther,
		})
		require.NoError(t, err)
	}

	events, err := svc.GetEventsByDateRange(date(2026, 9, 2, 0, 0), date(2026, 9, 4, 23, 0))
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, err = svc.GetEventsByDateRange(date(2026, 9, 4, 0, 0), date(2026, 9, 2, 0, 0))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
}

func TestUpdateEvent(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.CreateEvent(1, &EventRequest{
		Title: "Original", StartsAt: date(2026, 9, 10, 10, 0), Type: EventTypeTask,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEvent(event.ID, &EventRequest{
		Title:     "Renombrado",
		StartsAt:  date(2026, 9, 12, 15, 0),
		Type:      EventTypeDeadline,
		Completed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", updated.Title)
	assert.Equal(t, EventTypeDeadline, updated.Type)
	assert.True(t, updated.Completed)
}

func TestSetCompletedRoundTrip(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.CreateEvent(1, &EventRequest{
		Title: "Tarea", StartsAt: date(2026, 9, 10, 10, 0), Type: EventTypeTask,
	})
	require.NoError(t, err)

	completed, err := svc.SetCompleted(event.ID, true)
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	pending, err := svc.SetCompleted(event.ID, false)
	require.NoError(t, err)
	assert.False(t, pending.Completed)
}

func TestDeleteEvent(t *testing.T) {
	svc := newTestService(t)

	event, err := svc.CreateEvent(1, &EventRequest{
		Title: "Borrable", StartsAt: date(2026, 9, 10, 10, 0), Type: EventTypeOther,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(event.ID))

	err = svc.DeleteEvent(event.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestGetStats(t *testing.T) {
	svc := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateEvent(1, &EventRequest{
			Title:    fmt.Sprintf("Evento %d", i),
			StartsAt: date(2026, 9, 10+i, 10, 0),
			Type:     EventTypeTask,
		})
		require.NoError(t, err)
	}
	events, err := svc.GetEvents()
	require.NoError(t, err)
	_, err = svc.SetCompleted(events[0].ID, true)
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalEvents)
	assert.EqualValues(t, 2, stats.PendingEvents)
	assert.EqualValues(t, 1, stats.CompletedEvents)
}
