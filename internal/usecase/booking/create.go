package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TherapistID uint
	OfferingID  uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string // yyyy-mm-dd, storage calendar
	Time  string // HH:mm
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking is the only mutating path of the engine. It re-validates the
// slot under a row lock scoped to (therapist, day), so of N concurrent
// requests for conflicting intervals exactly one commits and the rest get
// slot_unavailable.
type CreateBooking struct {
	repo  domain.Repository
	cache *cache.Availability
	audit *audit.Dispatcher
	clock domain.Clock
}

func NewCreateBooking(
	repo domain.Repository,
	c *cache.Availability,
	auditDispatcher *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		cache: c,
		audit: auditDispatcher,
		clock: domain.RealClock{},
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// 1. therapist + timezone
	therapist, err := uc.repo.GetTherapistByID(ctx, in.TherapistID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(therapist.Timezone)

	// 2. requested start in the therapist's timezone
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// 3. offering: must exist, belong to this therapist, and be active
	offering, err := uc.repo.GetOffering(ctx, in.OfferingID)
	if err != nil {
		return nil, err
	}
	if offering.TherapistID != in.TherapistID {
		return nil, httperr.ErrBusiness("not_owner")
	}
	if !offering.Active || !offering.Service.Active {
		return nil, httperr.ErrBusiness("service_inactive")
	}

	duration := offering.EffectiveDuration()
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	// 4. start must be in the future, no grace window
	now := uc.clock.Now().In(loc)
	if !start.After(now) {
		return nil, httperr.ErrBusiness("past_booking")
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	// 5. lock the day's bookings and re-check the same predicate the read
	// path uses; insert only if the slot is still open
	var created *models.Booking

	err = uc.repo.InTransaction(ctx, func(txRepo domain.Repository) error {
		ok, err := SlotAvailable(ctx, txRepo, in.TherapistID, start, end, true)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("slot_unavailable")
		}

		b := &models.Booking{
			Reference:          uuid.NewString(),
			TherapistID:        in.TherapistID,
			TherapistServiceID: offering.ID,
			ClientName:         in.ClientName,
			ClientPhone:        in.ClientPhone,
			ClientEmail:        in.ClientEmail,
			StartTime:          start,
			EndTime:            end,
			DurationMin:        duration,
			Price:              offering.EffectivePrice(),
			Status:             string(domain.InitialStatus()),
			Notes:              in.Notes,
		}

		if err := txRepo.CreateBooking(ctx, b); err != nil {
			return err
		}

		created = b
		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") || httperr.IsExclusionConflict(err) {
			uc.audit.Dispatch(audit.Event{
				TherapistID: in.TherapistID,
				Action:      "booking_conflict",
				Entity:      "booking",
				Metadata: map[string]any{
					"start": start,
					"end":   end,
				},
			})
			return nil, httperr.ErrBusiness("slot_unavailable")
		}
		return nil, err
	}

	// 6. the day's cached availability is stale now
	uc.cache.Invalidate(ctx, in.TherapistID, start)

	uc.audit.Dispatch(audit.Event{
		TherapistID: in.TherapistID,
		Action:      "booking_created",
		Entity:      "booking",
		EntityID:    &created.ID,
	})

	return created, nil
}
