package booking

import (
	"context"
	"time"

	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

const (
	defaultScanDays = 30
	maxScanDays     = 90
)

type NextSlot struct {
	Date string      `json:"date"`
	Slot domain.Slot `json:"slot"`
}

type GetNextAvailableSlot struct {
	repo  domain.Repository
	clock domain.Clock
}

func NewGetNextAvailableSlot(repo domain.Repository) *GetNextAvailableSlot {
	return &GetNextAvailableSlot{
		repo:  repo,
		clock: domain.RealClock{},
	}
}

// Execute scans forward from today and returns the first open slot for the
// offering, or nil when the scan window is exhausted. No availability is a
// normal outcome, not a failure.
func (uc *GetNextAvailableSlot) Execute(
	ctx context.Context,
	therapistID uint,
	offeringID uint,
	maxDaysToScan int,
) (*NextSlot, error) {

	offering, err := uc.repo.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if offering.TherapistID != therapistID {
		return nil, httperr.ErrBusiness("not_owner")
	}
	if !offering.Active || !offering.Service.Active {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	therapist, err := uc.repo.GetTherapistByID(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(therapist.Timezone)

	if maxDaysToScan <= 0 {
		maxDaysToScan = defaultScanDays
	}
	if maxDaysToScan > maxScanDays {
		maxDaysToScan = maxScanDays
	}

	now := uc.clock.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	duration := offering.EffectiveDuration()

	for i := 0; i < maxDaysToScan; i++ {
		day := today.AddDate(0, 0, i)

		plan, err := resolveDayPlan(ctx, uc.repo, therapistID, day)
		if err != nil {
			return nil, err
		}
		if !plan.Available {
			continue
		}

		candidates := domain.GenerateSlots(day, plan.StartTime, plan.EndTime, duration, plan.BreakMin, loc)
		if len(candidates) == 0 {
			continue
		}

		dayStart, dayEnd := dayBounds(day)
		bookings, err := uc.repo.ListBookingsForDay(ctx, therapistID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		for _, slot := range domain.FilterAvailable(candidates, bookings) {
			// today's already-started slots are not bookable
			if !slot.Start.After(now) {
				continue
			}
			return &NextSlot{
				Date: day.Format("2006-01-02"),
				Slot: slot,
			}, nil
		}
	}

	return nil, nil
}
