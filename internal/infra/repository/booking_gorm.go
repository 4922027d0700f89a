package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Therapist
// --------------------------------------------------

func (r *BookingGormRepository) GetTherapistByID(
	ctx context.Context,
	id uint,
) (*models.Therapist, error) {

	var t models.Therapist
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *BookingGormRepository) GetTherapistBySlug(
	ctx context.Context,
	slug string,
) (*models.Therapist, error) {

	var t models.Therapist
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// --------------------------------------------------
// Offerings
// --------------------------------------------------

func (r *BookingGormRepository) GetOffering(
	ctx context.Context,
	offeringID uint,
) (*models.TherapistService, error) {

	var offering models.TherapistService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&offering, offeringID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	return &offering, nil
}

func (r *BookingGormRepository) ListActiveOfferings(
	ctx context.Context,
	therapistID uint,
) ([]models.TherapistService, error) {

	var offerings []models.TherapistService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("therapist_id = ? AND active = true", therapistID).
		Order("id ASC").
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// --------------------------------------------------
// Schedule Resolver stores
// --------------------------------------------------

// GetWeeklySchedule returns the active row for the weekday, or nil when the
// weekday has no governing rule.
func (r *BookingGormRepository) GetWeeklySchedule(
	ctx context.Context,
	therapistID uint,
	weekday int,
) (*models.WeeklySchedule, error) {

	var ws models.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("therapist_id = ? AND weekday = ? AND active = true", therapistID, weekday).
		Order("id DESC").
		First(&ws).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *BookingGormRepository) GetOverride(
	ctx context.Context,
	therapistID uint,
	date time.Time,
) (*models.ScheduleOverride, error) {

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var ov models.ScheduleOverride
	err := r.db.WithContext(ctx).
		Where("therapist_id = ? AND date >= ? AND date < ?", therapistID, dayStart, dayEnd).
		First(&ov).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// --------------------------------------------------
// Bookings (read)
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForDay(
	ctx context.Context,
	therapistID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {
	return r.listDay(ctx, therapistID, dayStart, dayEnd, false)
}

// LockBookingsForDay takes FOR UPDATE on every not-cancelled booking row of
// the therapist's day. Conflicting booking transactions for the same
// therapist/day serialize on these rows; different therapists or days never
// contend.
func (r *BookingGormRepository) LockBookingsForDay(
	ctx context.Context,
	therapistID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {
	return r.listDay(ctx, therapistID, dayStart, dayEnd, true)
}

func (r *BookingGormRepository) listDay(
	ctx context.Context,
	therapistID uint,
	dayStart time.Time,
	dayEnd time.Time,
	forUpdate bool,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"therapist_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			therapistID, "cancelled", dayStart, dayEnd,
		).
		Order("start_time ASC")

	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) HasConflict(
	ctx context.Context,
	therapistID uint,
	start time.Time,
	end time.Time,
	excludeBookingID *uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"therapist_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			therapistID, "cancelled", end, start,
		)

	if excludeBookingID != nil {
		q = q.Where("id <> ?", *excludeBookingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	therapistID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("TherapistService").
		Preload("TherapistService.Service").
		Where(
			"therapist_id = ? AND start_time >= ? AND start_time < ?",
			therapistID, start, end,
		).
		Order("start_time ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Bookings (write)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBookingForTherapist(
	ctx context.Context,
	bookingID uint,
	therapistID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND therapist_id = ?", bookingID, therapistID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByReference(
	ctx context.Context,
	reference string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("TherapistService").
		Preload("TherapistService.Service").
		Where("reference = ?", reference).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) InTransaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBookingGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
