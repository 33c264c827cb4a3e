// Package service implements the reservation allocation engine: the
// decision of whether a requested time interval may be granted against
// a slot, the consistent transition of slot and reservation state, and
// the reconciliation of asynchronous payment callbacks.  All shared
// state mutation is serialized per slot and per reservation through a
// keyed lock; there is no global lock.
package service

import (
    "context"
    "errors"
    "strconv"
    "time"

    "github.com/iliyamo/parking-slot-reservation/internal/lock"
    "github.com/iliyamo/parking-slot-reservation/internal/model"
    "github.com/iliyamo/parking-slot-reservation/internal/repository"
)

// SlotStore is the slot registry the engine allocates against.  Get
// returns repository.ErrSlotNotFound for unknown IDs.  SetStatus is an
// unconditional write and is only invoked while the engine holds the
// allocation lock for that slot.
type SlotStore interface {
    Get(ctx context.Context, id uint64) (*model.ParkingSlot, error)
    SetStatus(ctx context.Context, id uint64, status model.SlotStatus) error
}

// ReservationStore persists reservations.  CreateAndReserveSlot and
// FinishAndReleaseSlot are each a single atomic unit: the reservation
// write and the slot status flip either both apply or neither does.
type ReservationStore interface {
    Get(ctx context.Context, id uint64) (*model.Reservation, error)
    GetByOrderRef(ctx context.Context, orderRef string) (*model.Reservation, error)
    HasOverlap(ctx context.Context, slotID uint64, start, end time.Time) (bool, error)
    CreateAndReserveSlot(ctx context.Context, res *model.Reservation) error
    FinishAndReleaseSlot(ctx context.Context, reservationID uint64, status model.ReservationStatus, slotID uint64) error
    SetOrderRef(ctx context.Context, id uint64, orderRef string) error
    MarkPaid(ctx context.Context, id uint64, paymentRef, signature string) error
    MarkPaymentFailed(ctx context.Context, id uint64) error
    ListActive(ctx context.Context) ([]model.Reservation, error)
    ListExpiredActive(ctx context.Context, now time.Time) ([]model.Reservation, error)
}

// PaymentProvider abstracts the external payment gateway.  CreateOrder
// registers a pending charge in minor currency units and returns the
// provider's order reference.  VerifySignature checks a confirmation
// callback against the provider's signing scheme.  The provider is
// untrusted and fallible; its errors surface as provider_error.
type PaymentProvider interface {
    CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
    VerifySignature(orderRef, paymentRef, signature string) bool
}

// EventPublisher receives domain events after they are committed.  It
// is optional; a nil publisher disables events.  Publish failures are
// not propagated to callers; the reservation state is already
// persisted by the time an event fires.
type EventPublisher interface {
    ReservationPaid(ctx context.Context, res *model.Reservation) error
}

// ReservationService is the core engine.  It is safe for concurrent
// use; one instance serves the whole process.
type ReservationService struct {
    slots        SlotStore
    reservations ReservationStore
    provider     PaymentProvider
    events       EventPublisher
    locks        *lock.Keyed
    currency     string
}

// NewReservationService wires the engine.  slots, reservations and
// provider must be non-nil; events may be nil.
func NewReservationService(slots SlotStore, reservations ReservationStore, provider PaymentProvider, events EventPublisher, currency string) *ReservationService {
    if slots == nil || reservations == nil || provider == nil {
        panic("nil dependency passed to NewReservationService")
    }
    return &ReservationService{
        slots:        slots,
        reservations: reservations,
        provider:     provider,
        events:       events,
        locks:        lock.NewKeyed(),
        currency:     currency,
    }
}

func slotKey(id uint64) string        { return "slot:" + strconv.FormatUint(id, 10) }
func reservationKey(id uint64) string { return "reservation:" + strconv.FormatUint(id, 10) }

// Reserve grants a [start, end) interval on a slot to a user.  The
// availability check, overlap check and commit run as one critical
// section under the slot's lock: two concurrent requests on the same
// slot can never both observe "no overlap" and both commit.
func (s *ReservationService) Reserve(ctx context.Context, userID, slotID uint64, start, end time.Time, amount float64) (*model.Reservation, error) {
    if slotID == 0 || start.IsZero() || end.IsZero() {
        return nil, invalidRequest("slot_id, start_time and end_time are required")
    }
    if !end.After(start) {
        return nil, invalidRequest("end_time must be after start_time")
    }
    if amount < 0 {
        return nil, invalidRequest("amount must not be negative")
    }

    s.locks.Lock(slotKey(slotID))
    defer s.locks.Unlock(slotKey(slotID))

    slot, err := s.slots.Get(ctx, slotID)
    if err != nil {
        if errors.Is(err, repository.ErrSlotNotFound) {
            return nil, notFound("parking slot not found")
        }
        return nil, err
    }
    if slot.Status != model.SlotAvailable {
        return nil, ErrSlotUnavailable
    }
    overlap, err := s.reservations.HasOverlap(ctx, slotID, start, end)
    if err != nil {
        return nil, err
    }
    if overlap {
        return nil, slotUnavailable("slot already reserved for this time range")
    }

    res := &model.Reservation{
        UserID:        userID,
        SlotID:        slotID,
        StartTime:     start.UTC(),
        EndTime:       end.UTC(),
        Status:        model.ReservationActive,
        PaymentStatus: model.PaymentPending,
        Amount:        amount,
    }
    if err := s.reservations.CreateAndReserveSlot(ctx, res); err != nil {
        return nil, err
    }
    return res, nil
}

// Cancel reverts an active reservation owned by userID and frees its
// slot.  Ownership failures are reported as not_found so that callers
// cannot probe for other users' reservation IDs.  Locks are taken in
// reservation-then-slot order; every code path that holds both locks
// uses that order.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, userID uint64) error {
    if reservationID == 0 {
        return invalidRequest("reservation_id is required")
    }

    s.locks.Lock(reservationKey(reservationID))
    defer s.locks.Unlock(reservationKey(reservationID))

    res, err := s.reservations.Get(ctx, reservationID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return notFound("reservation not found")
        }
        return err
    }
    if res.UserID != userID {
        return notFound("reservation not found")
    }
    if res.Status != model.ReservationActive {
        return invalidState("reservation is not active")
    }

    s.locks.Lock(slotKey(res.SlotID))
    defer s.locks.Unlock(slotKey(res.SlotID))

    return s.reservations.FinishAndReleaseSlot(ctx, res.ID, model.ReservationCancelled, res.SlotID)
}

// CancelAll applies the cancel transition to every active reservation
// system-wide, releasing each slot.  It is the per-reservation
// operation looped, not a distinct algorithm: each reservation is
// re-checked under its own locks, so reservations that complete or get
// cancelled concurrently are skipped.  Returns the number cancelled.
func (s *ReservationService) CancelAll(ctx context.Context) (int, error) {
    active, err := s.reservations.ListActive(ctx)
    if err != nil {
        return 0, err
    }
    cancelled := 0
    for i := range active {
        if err := s.finish(ctx, active[i].ID, model.ReservationCancelled); err != nil {
            if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
                continue
            }
            return cancelled, err
        }
        cancelled++
    }
    return cancelled, nil
}

// CompleteExpired moves every active reservation whose end time is at
// or before now into the completed state and releases its slot.
// Invoked periodically by the background sweeper.  Returns the number
// completed.
func (s *ReservationService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
    expired, err := s.reservations.ListExpiredActive(ctx, now)
    if err != nil {
        return 0, err
    }
    completed := 0
    for i := range expired {
        if err := s.finish(ctx, expired[i].ID, model.ReservationCompleted); err != nil {
            if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
                continue
            }
            return completed, err
        }
        completed++
    }
    return completed, nil
}

// finish re-validates a reservation under its locks and applies a
// terminal transition.  The active check must repeat inside the locks:
// the listing that produced the ID ran outside them.
func (s *ReservationService) finish(ctx context.Context, reservationID uint64, status model.ReservationStatus) error {
    s.locks.Lock(reservationKey(reservationID))
    defer s.locks.Unlock(reservationKey(reservationID))

    res, err := s.reservations.Get(ctx, reservationID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return ErrNotFound
        }
        return err
    }
    if res.Status != model.ReservationActive {
        return ErrInvalidState
    }

    s.locks.Lock(slotKey(res.SlotID))
    defer s.locks.Unlock(slotKey(res.SlotID))

    return s.reservations.FinishAndReleaseSlot(ctx, res.ID, status, res.SlotID)
}
