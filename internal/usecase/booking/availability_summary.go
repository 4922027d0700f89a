package booking

import (
	"context"
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
)

// Ranges are bounded so the day-by-day recompute stays cheap.
const maxSummaryDays = 31

type DaySummary struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	OpenSlots   int    `json:"open_slots"`
}

type GetAvailabilitySummary struct {
	slots *GetAvailableSlots
}

func NewGetAvailabilitySummary(slots *GetAvailableSlots) *GetAvailabilitySummary {
	return &GetAvailabilitySummary{slots: slots}
}

func (uc *GetAvailabilitySummary) Execute(
	ctx context.Context,
	therapistID uint,
	startDate time.Time,
	endDate time.Time,
) ([]DaySummary, error) {

	if endDate.Before(startDate) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if days > maxSummaryDays {
		return nil, httperr.ErrBusiness("date_range_too_large")
	}

	out := make([]DaySummary, 0, days)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		day, err := uc.slots.Execute(ctx, therapistID, d)
		if err != nil {
			return nil, err
		}

		open := 0
		for _, off := range day.Offerings {
			open += off.SlotCount
		}

		out = append(out, DaySummary{
			Date:        day.Date,
			IsAvailable: day.IsAvailable,
			OpenSlots:   open,
		})
	}

	return out, nil
}
