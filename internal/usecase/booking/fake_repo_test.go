package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/pedram-fm/massage-app-sub000/internal/domain/booking"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

// fakeState is the in-memory store shared by every fakeRepo view. dayLocks
// emulates the per-(therapist, day) row lock the real repository takes with
// FOR UPDATE: LockBookingsForDay acquires the day's mutex and InTransaction
// releases it when the callback returns.
type fakeState struct {
	mu sync.Mutex

	therapists map[uint]models.Therapist
	offerings  map[uint]models.TherapistService
	weekly     map[int]models.WeeklySchedule  // keyed by weekday, single therapist
	overrides  map[string]models.ScheduleOverride // keyed by yyyy-mm-dd

	bookings []models.Booking
	nextID   uint

	dayLocks map[string]*sync.Mutex
}

type fakeRepo struct {
	s    *fakeState
	inTx bool
	held []*sync.Mutex
}

var _ domain.Repository = (*fakeRepo)(nil)

var errNotFound = errors.New("record not found")

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		s: &fakeState{
			therapists: make(map[uint]models.Therapist),
			offerings:  make(map[uint]models.TherapistService),
			weekly:     make(map[int]models.WeeklySchedule),
			overrides:  make(map[string]models.ScheduleOverride),
			nextID:     1,
			dayLocks:   make(map[string]*sync.Mutex),
		},
	}
}

// seedStandard sets up therapist 1 in UTC with a 60-minute offering and a
// 09:00-17:00 schedule with 15-minute breaks on every weekday.
func seedStandard(r *fakeRepo) {
	r.s.therapists[1] = models.Therapist{
		ID: 1, Name: "Pedram", Slug: "pedram", Timezone: "UTC",
	}

	duration := 60
	r.s.offerings[1] = models.TherapistService{
		ID:          1,
		TherapistID: 1,
		ServiceID:   10,
		DurationMin: &duration,
		Active:      true,
		Service: models.Service{
			ID: 10, Name: "Deep Tissue", NameFa: "ماساژ بافت عمقی",
			DurationMin: 60, Price: 120, Active: true,
		},
	}

	for wd := 0; wd <= 6; wd++ {
		r.s.weekly[wd] = models.WeeklySchedule{
			TherapistID: 1, Weekday: wd,
			StartTime: "09:00", EndTime: "17:00",
			BreakMin: 15, Active: true,
		}
	}
}

// -------- Therapist --------

func (r *fakeRepo) GetTherapistByID(_ context.Context, id uint) (*models.Therapist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.therapists[id]
	if !ok {
		return nil, errNotFound
	}
	return &t, nil
}

func (r *fakeRepo) GetTherapistBySlug(_ context.Context, slug string) (*models.Therapist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.therapists {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, errNotFound
}

// -------- Offerings --------

func (r *fakeRepo) GetOffering(_ context.Context, offeringID uint) (*models.TherapistService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	off, ok := r.s.offerings[offeringID]
	if !ok {
		return nil, errNotFound
	}
	return &off, nil
}

func (r *fakeRepo) ListActiveOfferings(_ context.Context, therapistID uint) ([]models.TherapistService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.TherapistService
	for _, off := range r.s.offerings {
		if off.TherapistID == therapistID && off.Active {
			out = append(out, off)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -------- Schedule Resolver stores --------

func (r *fakeRepo) GetWeeklySchedule(_ context.Context, _ uint, weekday int) (*models.WeeklySchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ws, ok := r.s.weekly[weekday]
	if !ok {
		return nil, nil
	}
	return &ws, nil
}

func (r *fakeRepo) GetOverride(_ context.Context, _ uint, date time.Time) (*models.ScheduleOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ov, ok := r.s.overrides[date.Format("2006-01-02")]
	if !ok {
		return nil, nil
	}
	return &ov, nil
}

// -------- Bookings (read) --------

func (r *fakeRepo) listDay(therapistID uint, dayStart, dayEnd time.Time) []models.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.TherapistID != therapistID || b.Status == "cancelled" {
			continue
		}
		if b.StartTime.Before(dayStart) || !b.StartTime.Before(dayEnd) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (r *fakeRepo) ListBookingsForDay(_ context.Context, therapistID uint, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	return r.listDay(therapistID, dayStart, dayEnd), nil
}

func (r *fakeRepo) LockBookingsForDay(_ context.Context, therapistID uint, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	if r.inTx {
		key := fmt.Sprintf("%d:%s", therapistID, dayStart.Format("2006-01-02"))

		r.s.mu.Lock()
		dayMu, ok := r.s.dayLocks[key]
		if !ok {
			dayMu = &sync.Mutex{}
			r.s.dayLocks[key] = dayMu
		}
		r.s.mu.Unlock()

		dayMu.Lock()
		r.held = append(r.held, dayMu)
	}

	return r.listDay(therapistID, dayStart, dayEnd), nil
}

func (r *fakeRepo) HasConflict(_ context.Context, therapistID uint, start, end time.Time, excludeBookingID *uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.TherapistID != therapistID || b.Status == "cancelled" {
			continue
		}
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListBookingsForPeriod(_ context.Context, therapistID uint, start, end time.Time) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.TherapistID != therapistID {
			continue
		}
		if b.StartTime.Before(start) || !b.StartTime.Before(end) {
			continue
		}
		if off, ok := r.s.offerings[b.TherapistServiceID]; ok {
			b.TherapistService = off
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// -------- Bookings (write) --------

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b.ID = r.s.nextID
	r.s.nextID++
	r.s.bookings = append(r.s.bookings, *b)
	return nil
}

func (r *fakeRepo) GetBookingForTherapist(_ context.Context, bookingID, therapistID uint) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.ID == bookingID && b.TherapistID == therapistID {
			return &b, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRepo) GetBookingByReference(_ context.Context, reference string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.Reference == reference {
			return &b, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.bookings {
		if r.s.bookings[i].ID == b.ID {
			r.s.bookings[i] = *b
			return nil
		}
	}
	return errNotFound
}

// -------- Transaction --------

func (r *fakeRepo) InTransaction(_ context.Context, fn func(domain.Repository) error) error {
	tx := &fakeRepo{s: r.s, inTx: true}

	err := fn(tx)

	for _, m := range tx.held {
		m.Unlock()
	}
	return err
}

func overrideUnavailable(therapistID uint, date string) models.ScheduleOverride {
	d, _ := time.Parse("2006-01-02", date)
	return models.ScheduleOverride{
		TherapistID: therapistID,
		Date:        d,
		Type:        models.OverrideUnavailable,
	}
}

// -------- Clock --------

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
