package booking

import (
	"context"
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

type Repository interface {
	// -------- Therapist --------
	GetTherapistByID(
		ctx context.Context,
		id uint,
	) (*models.Therapist, error)

	GetTherapistBySlug(
		ctx context.Context,
		slug string,
	) (*models.Therapist, error)

	// -------- Offerings --------
	GetOffering(
		ctx context.Context,
		offeringID uint,
	) (*models.TherapistService, error)

	ListActiveOfferings(
		ctx context.Context,
		therapistID uint,
	) ([]models.TherapistService, error)

	// -------- Schedule Resolver stores --------
	GetWeeklySchedule(
		ctx context.Context,
		therapistID uint,
		weekday int,
	) (*models.WeeklySchedule, error)

	GetOverride(
		ctx context.Context,
		therapistID uint,
		date time.Time,
	) (*models.ScheduleOverride, error)

	// -------- Bookings (read) --------
	// ListBookingsForDay returns the not-cancelled bookings whose start
	// falls inside [dayStart, dayEnd), ordered by start time.
	ListBookingsForDay(
		ctx context.Context,
		therapistID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)

	// LockBookingsForDay is ListBookingsForDay with a row-exclusive lock.
	// Must only be called inside InTransaction; the lock is held until the
	// transaction ends and serializes conflicting writes per therapist/day.
	LockBookingsForDay(
		ctx context.Context,
		therapistID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)

	HasConflict(
		ctx context.Context,
		therapistID uint,
		start time.Time,
		end time.Time,
		excludeBookingID *uint,
	) (bool, error)

	ListBookingsForPeriod(
		ctx context.Context,
		therapistID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Bookings (write) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingForTherapist(
		ctx context.Context,
		bookingID uint,
		therapistID uint,
	) (*models.Booking, error)

	GetBookingByReference(
		ctx context.Context,
		reference string,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Transaction --------
	// InTransaction runs fn against a repository bound to one store
	// transaction. fn returning an error rolls everything back.
	InTransaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
