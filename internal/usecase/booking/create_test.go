package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
)

// the seeded schedule opens every day 09:00-17:00 UTC
var testNow = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

func newCreateUC(repo *fakeRepo) *CreateBooking {
	uc := NewCreateBooking(repo, nil, nil)
	uc.clock = fixedClock{t: testNow}
	return uc
}

func TestCreateBooking_Success(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1,
		OfferingID:  1,
		ClientName:  "Sara",
		ClientPhone: "0912000000",
		Date:        "2026-05-11",
		Time:        "10:15",
	})

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, 60, b.DurationMin)
	assert.Equal(t, 120.0, b.Price)
	assert.True(t, b.EndTime.Equal(b.StartTime.Add(60*time.Minute)))
}

func TestCreateBooking_Conflict(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-11", Time: "10:15",
	})
	require.NoError(t, err)

	// same interval again
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Mina",
		Date: "2026-05-11", Time: "10:15",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	// partially overlapping interval
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Mina",
		Date: "2026-05-11", Time: "10:45",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-11", Time: "10:00",
	})
	require.NoError(t, err)

	// starts exactly when the first one ends
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Mina",
		Date: "2026-05-11", Time: "11:00",
	})
	assert.NoError(t, err)
}

func TestCreateBooking_PastRejected(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	// clock says 2026-05-11 08:00
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-10", Time: "10:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "past_booking"))

	// exactly now is also not bookable
	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-11", Time: "08:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "past_booking"))
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	// 16:30 + 60min ends past 17:00
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-11", Time: "16:30",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateBooking_OfferingValidation(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)

	inactive := repo.s.offerings[1]
	inactive.ID = 2
	inactive.Active = false
	repo.s.offerings[2] = inactive

	other := repo.s.offerings[1]
	other.ID = 3
	other.TherapistID = 99
	repo.s.offerings[3] = other

	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 42, ClientName: "Sara",
		Date: "2026-05-11", Time: "10:00",
	})
	require.Error(t, err)

	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 2, ClientName: "Sara",
		Date: "2026-05-11", Time: "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "service_inactive"))

	_, err = uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 3, ClientName: "Sara",
		Date: "2026-05-11", Time: "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "not_owner"))
}

func TestCreateBooking_UnavailableDay(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	repo.s.overrides["2026-05-12"] = overrideUnavailable(1, "2026-05-12")

	uc := newCreateUC(repo)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		TherapistID: 1, OfferingID: 1, ClientName: "Sara",
		Date: "2026-05-12", Time: "10:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	repo := newFakeRepo()
	seedStandard(repo)
	uc := newCreateUC(repo)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateBookingInput{
				TherapistID: 1, OfferingID: 1, ClientName: "Racer",
				Date: "2026-05-11", Time: "14:00",
			})
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.True(t, httperr.IsBusiness(err, "slot_unavailable"), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success, "exactly one concurrent request must win")
}
