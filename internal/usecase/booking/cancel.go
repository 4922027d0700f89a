package booking

import (
	"context"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	"github.com/pedram-fm/massage-app-sub000/internal/cache"
	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

type CancelBooking struct {
	repo  domain.Repository
	cache *cache.Availability
	audit *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	c *cache.Availability,
	auditDispatcher *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		cache: c,
		audit: auditDispatcher,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	therapistID uint,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	therapist, err := uc.repo.GetTherapistByID(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingForTherapist(ctx, bookingID, therapistID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	now := timezone.NowIn(therapist.Timezone)
	if err := domain.Cancel(b, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	// the freed slot must be visible to the next availability read
	uc.cache.Invalidate(ctx, therapistID, b.StartTime)

	uc.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "booking_cancelled",
		Entity:      "booking",
		EntityID:    &b.ID,
	})

	return b, nil
}
