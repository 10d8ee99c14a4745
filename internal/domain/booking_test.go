package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/domain"
)

func TestBookingStatus(t *testing.T) {
	for _, s := range domain.AllStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, domain.BookingStatus("no_show").IsValid())

	assert.True(t, domain.StatusPending.OccupiesSlot())
	assert.True(t, domain.StatusConfirmed.OccupiesSlot())
	assert.False(t, domain.StatusCancelled.OccupiesSlot())
	assert.False(t, domain.StatusCompleted.OccupiesSlot())

	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
}

func TestBooking_EndTime(t *testing.T) {
	b := &domain.Booking{StartTime: "09:30", DurationMinutes: 45}

	end, err := b.EndTime()
	require.NoError(t, err)
	assert.Equal(t, "10:15", end.String())
}

func TestBookingsFilter_IsSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	assert.True(t, domain.BookingsFilter{StartDate: &day, EndDate: &day}.IsSingleDay())
	assert.False(t, domain.BookingsFilter{StartDate: &day, EndDate: &next}.IsSingleDay())
	assert.False(t, domain.BookingsFilter{StartDate: &day}.IsSingleDay())
}

func TestWorkingHours_ForDate(t *testing.T) {
	hours := domain.WorkingHours{
		"monday": {IsOpen: true, Open: "09:00", Close: "17:00"},
	}

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, hours.ForDate(monday).IsOpen)
	assert.Equal(t, "09:00", hours.ForDate(monday).Open)

	// отсутствующий день считается выходным
	assert.False(t, hours.ForDate(monday.AddDate(0, 0, 1)).IsOpen)
}

func TestBusinessSlotsConfig_StepFor(t *testing.T) {
	assert.Equal(t, 60, domain.DefaultSlotsConfig(1).StepFor(60))
	assert.Equal(t, 15, (&domain.BusinessSlotsConfig{SlotStepMinutes: 15}).StepFor(60))
}
