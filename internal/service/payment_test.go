package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

func reserveForPayment(t *testing.T, svc *ReservationService, store *memStore, amount float64) *model.Reservation {
	t.Helper()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start := time.Now().Add(time.Hour).Truncate(time.Second)
	res, err := svc.Reserve(context.Background(), 42, 1, start, start.Add(2*time.Hour), amount)
	require.NoError(t, err)
	return res
}

func TestInitiatePayment(t *testing.T) {
	svc, store, _, _ := newEngine()
	res := reserveForPayment(t, svc, store, 120.50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)

	assert.Equal(t, "order_1", order.OrderRef)
	assert.Equal(t, int64(12050), order.AmountMinor)
	assert.Equal(t, "INR", order.Currency)

	got := store.reservation(res.ID)
	require.NotNil(t, got.OrderRef)
	assert.Equal(t, "order_1", *got.OrderRef)
	assert.Equal(t, model.PaymentPending, got.PaymentStatus)
}

func TestInitiatePaymentAmountFloors(t *testing.T) {
	svc, store, _, _ := newEngine()
	res := reserveForPayment(t, svc, store, 99.999)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), order.AmountMinor)
}

func TestInitiatePaymentErrors(t *testing.T) {
	svc, store, provider, _ := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.InitiatePayment(context.Background(), 0, 42)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
	t.Run("unknown reservation", func(t *testing.T) {
		_, err := svc.InitiatePayment(context.Background(), 999, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("not owner", func(t *testing.T) {
		_, err := svc.InitiatePayment(context.Background(), res.ID, 7)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("provider down", func(t *testing.T) {
		provider.createErr = errors.New("gateway timeout")
		defer func() { provider.createErr = nil }()

		_, err := svc.InitiatePayment(context.Background(), res.ID, 42)
		assert.ErrorIs(t, err, ErrProviderError)

		// Reservation untouched by the failed attempt.
		got := store.reservation(res.ID)
		assert.Nil(t, got.OrderRef)
		assert.Equal(t, model.PaymentPending, got.PaymentStatus)
	})
}

func TestInitiatePaymentRetryIssuesFreshOrder(t *testing.T) {
	svc, store, provider, _ := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	first, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	second, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderRef, second.OrderRef)
	assert.Equal(t, 2, provider.orderCount())

	got := store.reservation(res.ID)
	require.NotNil(t, got.OrderRef)
	assert.Equal(t, second.OrderRef, *got.OrderRef)
}

func TestInitiatePaymentAfterPaidIsNoOp(t *testing.T) {
	svc, store, provider, _ := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", validSignature(order.OrderRef, "pay_1"))
	require.NoError(t, err)

	again, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, order.OrderRef, again.OrderRef)
	assert.Equal(t, 1, provider.orderCount())
}

func TestConfirmPayment(t *testing.T) {
	svc, store, _, events := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)

	confirmed, err := svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", validSignature(order.OrderRef, "pay_1"))
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, confirmed.PaymentStatus)
	require.NotNil(t, confirmed.PaymentRef)
	assert.Equal(t, "pay_1", *confirmed.PaymentRef)
	assert.Equal(t, model.ReservationActive, confirmed.Status)

	got := store.reservation(res.ID)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, 1, events.paidCount())
}

func TestConfirmPaymentValidation(t *testing.T) {
	svc, _, _, _ := newEngine()

	for _, tc := range []struct{ order, pay, sig string }{
		{"", "pay", "sig"},
		{"order", "", "sig"},
		{"order", "pay", ""},
	} {
		_, err := svc.ConfirmPayment(context.Background(), tc.order, tc.pay, tc.sig)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	svc, _, _, _ := newEngine()

	_, err := svc.ConfirmPayment(context.Background(), "order_nope", "pay_1", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmPaymentInvalidSignature(t *testing.T) {
	svc, store, _, events := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", "forged")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

	// The failure is recorded but the reservation itself survives.
	got := store.reservation(res.ID)
	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, model.ReservationActive, got.Status)
	assert.Equal(t, model.SlotReserved, store.slotStatus(1))
	assert.Equal(t, 0, events.paidCount())

	// A later valid callback still settles it.
	confirmed, err := svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_2", validSignature(order.OrderRef, "pay_2"))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, confirmed.PaymentStatus)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	svc, store, _, events := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)

	sig := validSignature(order.OrderRef, "pay_1")
	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", sig)
	require.NoError(t, err)
	repeat, err := svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", sig)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, repeat.PaymentStatus)
	assert.Equal(t, 1, events.paidCount())
}

func TestConfirmPaymentNeverDowngradesPaid(t *testing.T) {
	svc, store, _, _ := newEngine()
	res := reserveForPayment(t, svc, store, 50)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", validSignature(order.OrderRef, "pay_1"))
	require.NoError(t, err)

	// A stray invalid callback after settlement is rejected without
	// marking the payment failed.
	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", "forged")
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
	assert.Equal(t, model.PaymentPaid, store.reservation(res.ID).PaymentStatus)
}

// Full lifecycle: reserve, pay, confirm, then the sweeper completes the
// stay once the window has passed.
func TestReservationLifecyclePaidToCompleted(t *testing.T) {
	svc, store, _, events := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start := time.Now().Add(-2 * time.Hour).Truncate(time.Second)

	res, err := svc.Reserve(context.Background(), 42, 1, start, start.Add(time.Hour), 75)
	require.NoError(t, err)

	order, err := svc.InitiatePayment(context.Background(), res.ID, 42)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), order.OrderRef, "pay_1", validSignature(order.OrderRef, "pay_1"))
	require.NoError(t, err)

	n, err := svc.CompleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := store.reservation(res.ID)
	assert.Equal(t, model.ReservationCompleted, got.Status)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, model.SlotAvailable, store.slotStatus(1))
	assert.Equal(t, 1, events.paidCount())
}

// Full lifecycle: reserve then cancel before paying; the slot frees and
// a second customer takes the same window.
func TestReservationLifecycleCancelFreesSlot(t *testing.T) {
	svc, store, _, _ := newEngine()
	store.addSlot(1, 1, 7, model.SlotAvailable)
	start := time.Now().Add(time.Hour).Truncate(time.Second)

	first, err := svc.Reserve(context.Background(), 42, 1, start, start.Add(2*time.Hour), 75)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), first.ID, 42))

	second, err := svc.Reserve(context.Background(), 7, 1, start, start.Add(2*time.Hour), 75)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), second.UserID)
	assert.Equal(t, model.SlotReserved, store.slotStatus(1))
}
