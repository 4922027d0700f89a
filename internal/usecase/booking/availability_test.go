package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

func day(dateStr string) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	return d
}

func TestGetAvailableSlots_OpenDay(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := NewGetAvailableSlots(repo, nil)

	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)

	assert.True(t, res.IsAvailable)
	assert.Empty(t, res.Reason)
	require.Len(t, res.Offerings, 1)

	off := res.Offerings[0]
	assert.Equal(t, uint(1), off.OfferingID)
	assert.Equal(t, "Deep Tissue", off.ServiceName)
	// 09:00-17:00, 60min + 15min break: 6 candidates, none booked
	assert.Equal(t, 6, off.SlotCount)
	assert.True(t, off.HasAvailableSlots)
}

func TestGetAvailableSlots_BookedSlotRemoved(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	repo.s.bookings = append(repo.s.bookings, models.Booking{
		ID: 1, TherapistID: 1, TherapistServiceID: 1,
		StartTime: day("2026-05-11").Add(10*time.Hour + 15*time.Minute),
		EndTime:   day("2026-05-11").Add(11*time.Hour + 15*time.Minute),
		Status:    "confirmed",
	})

	uc := NewGetAvailableSlots(repo, nil)
	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)

	require.Len(t, res.Offerings, 1)
	assert.Equal(t, 5, res.Offerings[0].SlotCount)
	for _, s := range res.Offerings[0].Slots {
		assert.False(t, s.Start.Equal(day("2026-05-11").Add(10*time.Hour+15*time.Minute)),
			"booked slot must not be offered")
	}
}

func TestGetAvailableSlots_CancelledBookingFreesSlot(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	repo.s.bookings = append(repo.s.bookings, models.Booking{
		ID: 1, TherapistID: 1, TherapistServiceID: 1,
		StartTime: day("2026-05-11").Add(10*time.Hour + 15*time.Minute),
		EndTime:   day("2026-05-11").Add(11*time.Hour + 15*time.Minute),
		Status:    "cancelled",
	})

	uc := NewGetAvailableSlots(repo, nil)
	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)
	assert.Equal(t, 6, res.Offerings[0].SlotCount)
}

func TestGetAvailableSlots_UnavailableOverride(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	repo.s.overrides["2026-05-11"] = overrideUnavailable(1, "2026-05-11")

	uc := NewGetAvailableSlots(repo, nil)
	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)

	assert.False(t, res.IsAvailable)
	assert.Equal(t, ReasonTherapistUnavailable, res.Reason)
	assert.Empty(t, res.Offerings)
}

func TestGetAvailableSlots_CustomHoursOverride(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	repo.s.overrides["2026-05-11"] = models.ScheduleOverride{
		TherapistID: 1,
		Date:        day("2026-05-11"),
		Type:        models.OverrideCustomHours,
		StartTime:   "12:00",
		EndTime:     "14:00",
		BreakMin:    0,
	}

	uc := NewGetAvailableSlots(repo, nil)
	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)

	assert.True(t, res.IsAvailable)
	// 12:00-14:00, 60min, no break: exactly two slots
	assert.Equal(t, 2, res.Offerings[0].SlotCount)
}

func TestGetAvailableSlots_NoOfferings(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	delete(repo.s.offerings, 1)

	uc := NewGetAvailableSlots(repo, nil)
	res, err := uc.Execute(context.Background(), 1, day("2026-05-11"))
	require.NoError(t, err)

	assert.False(t, res.IsAvailable)
	assert.Equal(t, ReasonNoServicesConfigured, res.Reason)
}

func TestGetAvailabilitySummary(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	repo.s.overrides["2026-05-12"] = overrideUnavailable(1, "2026-05-12")

	uc := NewGetAvailabilitySummary(NewGetAvailableSlots(repo, nil))

	days, err := uc.Execute(context.Background(), 1, day("2026-05-11"), day("2026-05-13"))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.True(t, days[0].IsAvailable)
	assert.Equal(t, 6, days[0].OpenSlots)

	assert.False(t, days[1].IsAvailable)
	assert.Equal(t, 0, days[1].OpenSlots)

	assert.True(t, days[2].IsAvailable)
}

func TestGetAvailabilitySummary_RangeValidation(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := NewGetAvailabilitySummary(NewGetAvailableSlots(repo, nil))

	_, err := uc.Execute(context.Background(), 1, day("2026-05-13"), day("2026-05-11"))
	assert.True(t, httperr.IsBusiness(err, "invalid_date_range"))

	_, err = uc.Execute(context.Background(), 1, day("2026-05-01"), day("2026-07-01"))
	assert.True(t, httperr.IsBusiness(err, "date_range_too_large"))
}

func TestGetNextAvailableSlot(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	// today and tomorrow fully blocked
	repo.s.overrides["2026-05-11"] = overrideUnavailable(1, "2026-05-11")
	repo.s.overrides["2026-05-12"] = overrideUnavailable(1, "2026-05-12")

	uc := NewGetNextAvailableSlot(repo)
	uc.clock = fixedClock{t: testNow}

	next, err := uc.Execute(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, "2026-05-13", next.Date)
	assert.Equal(t, "09:00", next.Slot.Start.Format("15:04"))
}

func TestGetNextAvailableSlot_SkipsStartedSlotsToday(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	uc := NewGetNextAvailableSlot(repo)
	// mid-afternoon: 09:00-14:00 slots already started
	uc.clock = fixedClock{t: day("2026-05-11").Add(14*time.Hour + 30*time.Minute)}

	next, err := uc.Execute(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, "2026-05-11", next.Date)
	assert.Equal(t, "15:15", next.Slot.Start.Format("15:04"))
}

func TestGetNextAvailableSlot_Exhausted(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	repo.s.weekly = map[int]models.WeeklySchedule{} // never available

	uc := NewGetNextAvailableSlot(repo)
	uc.clock = fixedClock{t: testNow}

	next, err := uc.Execute(context.Background(), 1, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, next, "no availability is a normal nil result")
}

func TestHasConflict(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	start := day("2026-05-11").Add(10 * time.Hour)
	end := start.Add(time.Hour)
	repo.s.bookings = append(repo.s.bookings, models.Booking{
		ID: 7, TherapistID: 1,
		StartTime: start, EndTime: end, Status: "confirmed",
	})

	conflict, err := repo.HasConflict(context.Background(), 1, start, end, nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	// a booking never conflicts with itself when excluded
	self := uint(7)
	conflict, err = repo.HasConflict(context.Background(), 1, start, end, &self)
	require.NoError(t, err)
	assert.False(t, conflict)

	// back-to-back is not a conflict
	conflict, err = repo.HasConflict(context.Background(), 1, end, end.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestSlotAvailable_ReadAndWritePathsAgree(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	start := day("2026-05-11").Add(10 * time.Hour)
	end := start.Add(time.Hour)

	free, err := SlotAvailable(context.Background(), repo, 1, start, end, false)
	require.NoError(t, err)
	assert.True(t, free)

	repo.s.bookings = append(repo.s.bookings, models.Booking{
		ID: 1, TherapistID: 1,
		StartTime: start, EndTime: end, Status: "confirmed",
	})

	free, err = SlotAvailable(context.Background(), repo, 1, start, end, false)
	require.NoError(t, err)
	assert.False(t, free)
}
