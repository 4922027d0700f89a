package booking

import (
	"context"
	"time"

	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

// ======================================================
// OUTPUT
// ======================================================

type FreeGap struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_min"`
}

type DayGaps struct {
	Date        string    `json:"date"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
	Gaps        []FreeGap `json:"gaps"`
}

// ======================================================
// USE CASE
// ======================================================

// GetFreeGaps reports the unbooked stretches of a working day, regardless of
// whether a whole service fits in them. Useful for the therapist's own agenda
// view, where a 10-minute hole between bookings is still worth seeing.
type GetFreeGaps struct {
	repo domain.Repository
}

func NewGetFreeGaps(repo domain.Repository) *GetFreeGaps {
	return &GetFreeGaps{repo: repo}
}

func (uc *GetFreeGaps) Execute(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) (*DayGaps, error) {

	therapist, err := uc.repo.GetTherapistByID(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(therapist.Timezone)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	out := &DayGaps{
		Date: day.Format("2006-01-02"),
		Gaps: []FreeGap{},
	}

	plan, err := resolveDayPlan(ctx, uc.repo, therapistID, day)
	if err != nil {
		return nil, err
	}

	workStart, workEnd, ok := plan.Window(day, loc)
	if !ok {
		out.Reason = ReasonTherapistUnavailable
		return out, nil
	}

	dayStart, dayEnd := dayBounds(day)
	bookings, err := uc.repo.ListBookingsForDay(ctx, therapistID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	out.IsAvailable = true
	for _, g := range domain.AvailableGaps(bookings, workStart, workEnd) {
		out.Gaps = append(out.Gaps, FreeGap{
			Start:       g.Start,
			End:         g.End,
			DurationMin: int(g.End.Sub(g.Start).Minutes()),
		})
	}

	return out, nil
}
