package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

func window(hoursFromNow, durationHours int) (time.Time, time.Time) {
	start := time.Now().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Second)
	return start, start.Add(time.Duration(durationHours) * time.Hour)
}

func TestReserveHappyPath(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start, end := window(1, 2)

	res, err := svc.Reserve(context.Background(), 42, 1, start, end, 120.50)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotZero(t, res.ID)
	assert.Equal(t, uint64(42), res.UserID)
	assert.Equal(t, model.ReservationActive, res.Status)
	assert.Equal(t, model.PaymentPending, res.PaymentStatus)
	assert.Equal(t, model.SlotReserved, store.slotStatus(1))
}

func TestReserveValidation(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start, end := window(1, 2)

	cases := []struct {
		name   string
		slotID uint64
		start  time.Time
		end    time.Time
		amount float64
	}{
		{"missing slot", 0, start, end, 10},
		{"zero start", 1, time.Time{}, end, 10},
		{"zero end", 1, start, time.Time{}, 10},
		{"end before start", 1, end, start, 10},
		{"end equals start", 1, start, start, 10},
		{"negative amount", 1, start, end, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Reserve(context.Background(), 42, tc.slotID, tc.start, tc.end, tc.amount)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	// Nothing was written.
	assert.Equal(t, model.SlotAvailable, store.slotStatus(1))
}

func TestReserveUnknownSlot(t *testing.T) {
	svc, _, _, _ := newEngine()
	start, end := window(1, 2)

	_, err := svc.Reserve(context.Background(), 42, 99, start, end, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveSlotNotAvailable(t *testing.T) {
	for _, status := range []model.SlotStatus{model.SlotReserved, model.SlotInactive} {
		t.Run(string(status), func(t *testing.T) {
			svc, store, _, _ := newEngine()
			store.addSlot(1, 1, 7, status)
			start, end := window(1, 2)

			_, err := svc.Reserve(context.Background(), 42, 1, start, end, 10)
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		})
	}
}

func TestReserveOverlapRejected(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	// An active reservation on [base, base+2h) held by another user.
	store.addReservation(model.Reservation{
		UserID: 1, SlotID: 1,
		StartTime: base, EndTime: base.Add(2 * time.Hour),
		Status: model.ReservationActive, PaymentStatus: model.PaymentPending,
	})

	overlapping := []struct {
		name       string
		start, end time.Time
	}{
		{"identical", base, base.Add(2 * time.Hour)},
		{"straddles start", base.Add(-time.Hour), base.Add(time.Hour)},
		{"straddles end", base.Add(time.Hour), base.Add(3 * time.Hour)},
		{"contained", base.Add(30 * time.Minute), base.Add(90 * time.Minute)},
		{"contains", base.Add(-time.Hour), base.Add(3 * time.Hour)},
	}
	for _, tc := range overlapping {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Reserve(context.Background(), 2, 1, tc.start, tc.end, 10)
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		})
	}
}

func TestReserveAdjacentIntervalsAdmitted(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	// Intervals are half-open: an existing [base, base+2h) hold does
	// not collide with [base+2h, base+4h) or [base-2h, base).
	store.addReservation(model.Reservation{
		UserID: 1, SlotID: 1,
		StartTime: base, EndTime: base.Add(2 * time.Hour),
		Status: model.ReservationActive, PaymentStatus: model.PaymentPending,
	})

	_, err := svc.Reserve(context.Background(), 2, 1, base.Add(2*time.Hour), base.Add(4*time.Hour), 10)
	assert.NoError(t, err)

	store.addSlot(1, 1, 7, model.SlotAvailable) // reset status for the second probe
	_, err = svc.Reserve(context.Background(), 2, 1, base.Add(-2*time.Hour), base, 10)
	assert.NoError(t, err)
}

func TestReserveIgnoresFinishedReservations(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	for _, status := range []model.ReservationStatus{model.ReservationCancelled, model.ReservationCompleted} {
		store.addReservation(model.Reservation{
			UserID: 1, SlotID: 1,
			StartTime: base, EndTime: base.Add(2 * time.Hour),
			Status: status, PaymentStatus: model.PaymentPending,
		})
	}

	_, err := svc.Reserve(context.Background(), 2, 1, base, base.Add(2*time.Hour), 10)
	assert.NoError(t, err)
}

func TestReserveConcurrentSameSlot(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), user, 1, base, base.Add(time.Hour), 10)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, model.SlotReserved, store.slotStatus(1))
}

func TestCancelHappyPath(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start, end := window(1, 2)

	res, err := svc.Reserve(context.Background(), 42, 1, start, end, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42))

	got := store.reservation(res.ID)
	assert.Equal(t, model.ReservationCancelled, got.Status)
	assert.Equal(t, model.SlotAvailable, store.slotStatus(1))
}

func TestCancelErrors(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start, end := window(1, 2)

	res, err := svc.Reserve(context.Background(), 42, 1, start, end, 10)
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		assert.ErrorIs(t, svc.Cancel(context.Background(), 0, 42), ErrInvalidRequest)
	})
	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, svc.Cancel(context.Background(), 999, 42), ErrNotFound)
	})
	t.Run("not owner", func(t *testing.T) {
		// Other users' reservations are indistinguishable from
		// nonexistent ones.
		assert.ErrorIs(t, svc.Cancel(context.Background(), res.ID, 7), ErrNotFound)
	})
}

func TestCancelTwiceReleasesOnce(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start, end := window(1, 2)

	res, err := svc.Reserve(context.Background(), 42, 1, start, end, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42))
	assert.ErrorIs(t, svc.Cancel(context.Background(), res.ID, 42), ErrInvalidState)

	assert.Equal(t, 1, store.releaseCount())
	assert.Equal(t, model.SlotAvailable, store.slotStatus(1))
}

func TestCancelAll(t *testing.T) {
	svc, store, _, _ := newEngine()
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	for i := uint64(1); i <= 3; i++ {
		store.addSlot(i, 1, uint32(i), model.SlotAvailable)
		_, err := svc.Reserve(context.Background(), i, i, base, base.Add(time.Hour), 10)
		require.NoError(t, err)
	}
	// Already-cancelled reservations are skipped, not an error.
	store.addSlot(4, 1, 4, model.SlotAvailable)
	store.addReservation(model.Reservation{
		UserID: 9, SlotID: 4,
		StartTime: base, EndTime: base.Add(time.Hour),
		Status: model.ReservationCancelled, PaymentStatus: model.PaymentPending,
	})

	n, err := svc.CancelAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for i := uint64(1); i <= 3; i++ {
		assert.Equal(t, model.SlotAvailable, store.slotStatus(i))
	}
}

func TestCompleteExpired(t *testing.T) {
	svc, store, _, _ := newEngine()
	now := time.Now().Truncate(time.Second)

	store.addSlot(1, 1, 1, model.SlotReserved)
	store.addSlot(2, 1, 2, model.SlotReserved)
	store.addSlot(3, 1, 3, model.SlotReserved)

	// Ended an hour ago: must complete.
	store.addReservation(model.Reservation{
		ID: 1, UserID: 1, SlotID: 1,
		StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-time.Hour),
		Status: model.ReservationActive, PaymentStatus: model.PaymentPaid,
	})
	// Ends exactly now: the window is half-open, so it has ended.
	store.addReservation(model.Reservation{
		ID: 2, UserID: 2, SlotID: 2,
		StartTime: now.Add(-time.Hour), EndTime: now,
		Status: model.ReservationActive, PaymentStatus: model.PaymentPaid,
	})
	// Still running: must stay active.
	store.addReservation(model.Reservation{
		ID: 3, UserID: 3, SlotID: 3,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
		Status: model.ReservationActive, PaymentStatus: model.PaymentPaid,
	})

	n, err := svc.CompleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, model.ReservationCompleted, store.reservation(1).Status)
	assert.Equal(t, model.ReservationCompleted, store.reservation(2).Status)
	assert.Equal(t, model.ReservationActive, store.reservation(3).Status)
	assert.Equal(t, model.SlotAvailable, store.slotStatus(1))
	assert.Equal(t, model.SlotAvailable, store.slotStatus(2))
	assert.Equal(t, model.SlotReserved, store.slotStatus(3))
}
