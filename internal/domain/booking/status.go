package booking

import "github.com/pedram-fm/massage-app-sub000/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Blocks reports whether a booking in this status occupies its interval.
// Only cancellation frees the slot; completed and no-show bookings still
// belong to the past and never race with new ones anyway.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

// ===============================
// Transitions
// ===============================

func isOpen(current Status) bool {
	return current == StatusPending || current == StatusConfirmed
}

func CanCancel(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if !isOpen(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
