package booking

import (
	"context"
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
)

// ======================================================
// OUTPUT
// ======================================================

type OfferingSlots struct {
	OfferingID        uint          `json:"offering_id"`
	ServiceID         uint          `json:"service_id"`
	ServiceName       string        `json:"service_name"`
	ServiceNameFa     string        `json:"service_name_fa"`
	DurationMin       int           `json:"duration_min"`
	Price             float64       `json:"price"`
	Slots             []domain.Slot `json:"slots"`
	SlotCount         int           `json:"slot_count"`
	HasAvailableSlots bool          `json:"has_available_slots"`
}

type DayAvailability struct {
	Date        string          `json:"date"` // yyyy-mm-dd, storage calendar
	IsAvailable bool            `json:"is_available"`
	Reason      string          `json:"reason,omitempty"`
	Offerings   []OfferingSlots `json:"offerings"`
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailableSlots struct {
	repo  domain.Repository
	cache *cache.Availability
}

func NewGetAvailableSlots(repo domain.Repository, c *cache.Availability) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo, cache: c}
}

// Execute answers "what can be booked on this date" without mutating
// anything. The answer is advisory; the booking transaction re-validates
// under lock.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) (*DayAvailability, error) {

	var cached DayAvailability
	if uc.cache.Get(ctx, therapistID, date, &cached) {
		return &cached, nil
	}

	result := &DayAvailability{
		Date:      date.Format("2006-01-02"),
		Offerings: []OfferingSlots{},
	}

	// 1. effective rule for the day
	plan, err := resolveDayPlan(ctx, uc.repo, therapistID, date)
	if err != nil {
		return nil, err
	}
	if !plan.Available {
		result.Reason = ReasonTherapistUnavailable
		uc.cache.Set(ctx, therapistID, date, result)
		return result, nil
	}

	// 2. active offerings
	offerings, err := uc.repo.ListActiveOfferings(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		result.Reason = ReasonNoServicesConfigured
		uc.cache.Set(ctx, therapistID, date, result)
		return result, nil
	}

	// 3. candidate slots, one generator pass per offering over the same window
	specs := make([]domain.ServiceSlotSpec, 0, len(offerings))
	for _, off := range offerings {
		specs = append(specs, domain.ServiceSlotSpec{
			ServiceID:   off.ID,
			DurationMin: off.EffectiveDuration(),
			BreakMin:    plan.BreakMin,
		})
	}
	candidates := domain.GenerateSlotsForServices(date, plan.StartTime, plan.EndTime, specs, date.Location())

	// 4. drop slots conflicting with the day's not-cancelled bookings
	dayStart, dayEnd := dayBounds(date)
	bookings, err := uc.repo.ListBookingsForDay(ctx, therapistID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	result.IsAvailable = true
	for _, off := range offerings {
		free := domain.FilterAvailable(candidates[off.ID], bookings)

		result.Offerings = append(result.Offerings, OfferingSlots{
			OfferingID:        off.ID,
			ServiceID:         off.ServiceID,
			ServiceName:       off.Service.Name,
			ServiceNameFa:     off.Service.NameFa,
			DurationMin:       off.EffectiveDuration(),
			Price:             off.EffectivePrice(),
			Slots:             free,
			SlotCount:         len(free),
			HasAvailableSlots: len(free) > 0,
		})
	}

	uc.cache.Set(ctx, therapistID, date, result)
	return result, nil
}
