package booking

import (
	"context"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
	"github.com/pedram-fm/massage-app-sub000/internal/timezone"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	therapistID uint,
	bookingID uint,
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
	if err := domain.Complete(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "booking_completed",
		Entity:      "booking",
		EntityID:    &b.ID,
	})

	return b, nil
}
