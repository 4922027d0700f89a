package booking

import (
	"context"
	"time"

	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

// Reasons a day can have no bookable slots without that being an error.
const (
	ReasonTherapistUnavailable = "therapist_unavailable"
	ReasonNoServicesConfigured = "no_services_configured"
)

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}

// resolveDayPlan reads the override and weekly rows and applies precedence.
func resolveDayPlan(
	ctx context.Context,
	repo domain.Repository,
	therapistID uint,
	date time.Time,
) (domain.DayPlan, error) {

	override, err := repo.GetOverride(ctx, therapistID, date)
	if err != nil {
		return domain.DayPlan{}, err
	}

	weekly, err := repo.GetWeeklySchedule(ctx, therapistID, int(date.Weekday()))
	if err != nil {
		return domain.DayPlan{}, err
	}

	return domain.ResolveDayPlan(override, weekly), nil
}

// SlotAvailable is the one availability predicate: effective schedule,
// working-hours containment, then overlap against the day's not-cancelled
// bookings. The read path calls it unlocked; the booking transaction calls
// it with locked=true after taking the day's row lock, so both paths agree
// except for the race the lock resolves.
func SlotAvailable(
	ctx context.Context,
	repo domain.Repository,
	therapistID uint,
	start time.Time,
	end time.Time,
	locked bool,
) (bool, error) {

	plan, err := resolveDayPlan(ctx, repo, therapistID, start)
	if err != nil {
		return false, err
	}

	workStart, workEnd, ok := plan.Window(start, start.Location())
	if !ok {
		return false, nil
	}

	if !domain.WithinWorkingHours(start, end, workStart, workEnd) {
		return false, nil
	}

	dayStart, dayEnd := dayBounds(start)

	var bookings []models.Booking
	if locked {
		bookings, err = repo.LockBookingsForDay(ctx, therapistID, dayStart, dayEnd)
	} else {
		bookings, err = repo.ListBookingsForDay(ctx, therapistID, dayStart, dayEnd)
	}
	if err != nil {
		return false, err
	}

	for _, b := range bookings {
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			return false, nil
		}
	}

	return true, nil
}
