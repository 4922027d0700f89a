package booking

import (
	"context"

	"github.com/pedram-fm/massage-app-sub000/internal/audit"
	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *MarkNoShow {
	return &MarkNoShow{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	therapistID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForTherapist(ctx, bookingID, therapistID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.MarkNoShow(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TherapistID: therapistID,
		Action:      "booking_no_show",
		Entity:      "booking",
		EntityID:    &b.ID,
	})

	return b, nil
}
