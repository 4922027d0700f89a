package booking

import (
	"sort"
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

// Slot is one bookable interval, half-open: [Start, End).
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is a free stretch of time within a working day.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps is the single source of truth for interval conflict.
// Intervals are half-open, so back-to-back (endA == startB) is NOT overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// WithinWorkingHours checks inclusive-bounds containment of [start, end)
// in [workStart, workEnd].
func WithinWorkingHours(start, end, workStart, workEnd time.Time) bool {
	return !start.Before(workStart) && !end.After(workEnd)
}

// FilterAvailable drops every slot that overlaps any not-cancelled booking.
// Cancelled bookings never block a slot.
func FilterAvailable(slots []Slot, bookings []models.Booking) []Slot {
	out := make([]Slot, 0, len(slots))

	for _, s := range slots {
		blocked := false
		for _, b := range bookings {
			if b.Status == string(StatusCancelled) {
				continue
			}
			if Overlaps(s.Start, s.End, b.StartTime, b.EndTime) {
				blocked = true
				break
			}
		}
		if !blocked {
			out = append(out, s)
		}
	}

	return out
}

// AvailableGaps returns the free intervals of a working day, ordered by start.
// Used for the "free time" view, not by the slot/booking algorithms.
func AvailableGaps(bookings []models.Booking, workStart, workEnd time.Time) []Interval {
	active := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == string(StatusCancelled) {
			continue
		}
		active = append(active, b)
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].StartTime.Before(active[j].StartTime)
	})

	gaps := make([]Interval, 0, len(active)+1)
	cursor := workStart

	for _, b := range active {
		if b.StartTime.After(cursor) {
			end := b.StartTime
			if end.After(workEnd) {
				end = workEnd
			}
			if end.After(cursor) {
				gaps = append(gaps, Interval{Start: cursor, End: end})
			}
		}
		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
		if !cursor.Before(workEnd) {
			return gaps
		}
	}

	if workEnd.After(cursor) {
		gaps = append(gaps, Interval{Start: cursor, End: workEnd})
	}

	return gaps
}
