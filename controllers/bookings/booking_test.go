package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eduvibe-backend/models/bookings"
)

func TestConflictWindow(t *testing.T) {
	session := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	start, end := conflictWindow(session)

	assert.Equal(t, time.Date(2026, 9, 15, 13, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 15, 16, 0, 0, 0, time.UTC), end)

	t.Run("back to back sessions overlap", func(t *testing.T) {
		// Сессия длится два часа, поэтому начало ровно через два часа
		// после существующей ещё попадает в окно
		next := session.Add(2 * time.Hour)
		assert.False(t, next.After(end))
	})

	t.Run("three hours later is clear", func(t *testing.T) {
		next := session.Add(3 * time.Hour)
		assert.True(t, next.After(end))
	})
}

func TestCanCancel(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{bookings.StatusPending, true},
		{bookings.StatusConfirmed, true},
		{bookings.StatusInProgress, true},
		{bookings.StatusCompleted, false},
		{bookings.StatusCancelled, false},
	}
	for _, tc := range cases {
		b := bookings.Booking{Status: tc.status}
		assert.Equal(t, tc.want, b.CanCancel(), "status=%s", tc.status)
	}
}
