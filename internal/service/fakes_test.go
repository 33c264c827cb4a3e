package service

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/iliyamo/parking-slot-reservation/internal/model"
    "github.com/iliyamo/parking-slot-reservation/internal/repository"
)

// memStore is the shared in-memory state behind the SlotStore and
// ReservationStore fakes.  All access is mutex-guarded so that the
// concurrency tests measure the engine's locking, not data races
// inside the fake.  The two store interfaces both declare a Get
// method, so they are exposed through the memSlots and
// memReservations adapter views below.
type memStore struct {
    mu           sync.Mutex
    slots        map[uint64]*model.ParkingSlot
    reservations map[uint64]*model.Reservation
    nextID       uint64
    releases     int // number of FinishAndReleaseSlot calls that went through
}

func newMemStore() *memStore {
    return &memStore{
        slots:        make(map[uint64]*model.ParkingSlot),
        reservations: make(map[uint64]*model.Reservation),
    }
}

func (m *memStore) addSlot(id, lotID uint64, number uint32, status model.SlotStatus) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.slots[id] = &model.ParkingSlot{ID: id, LotID: lotID, SlotNumber: number, Status: status}
}

func (m *memStore) addReservation(res model.Reservation) {
    m.mu.Lock()
    defer m.mu.Unlock()
    if res.ID == 0 {
        m.nextID++
        res.ID = m.nextID
    } else if res.ID > m.nextID {
        m.nextID = res.ID
    }
    cp := res
    m.reservations[cp.ID] = &cp
}

func (m *memStore) slotStatus(id uint64) model.SlotStatus {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.slots[id].Status
}

func (m *memStore) reservation(id uint64) model.Reservation {
    m.mu.Lock()
    defer m.mu.Unlock()
    return *m.reservations[id]
}

func (m *memStore) releaseCount() int {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.releases
}

// memSlots implements SlotStore over a memStore.
type memSlots struct{ m *memStore }

func (a memSlots) Get(ctx context.Context, id uint64) (*model.ParkingSlot, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    s, ok := a.m.slots[id]
    if !ok {
        return nil, repository.ErrSlotNotFound
    }
    cp := *s
    return &cp, nil
}

func (a memSlots) SetStatus(ctx context.Context, id uint64, status model.SlotStatus) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    s, ok := a.m.slots[id]
    if !ok {
        return repository.ErrSlotNotFound
    }
    s.Status = status
    return nil
}

// memReservations implements ReservationStore over a memStore.
type memReservations struct{ m *memStore }

func (a memReservations) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    r, ok := a.m.reservations[id]
    if !ok {
        return nil, repository.ErrReservationNotFound
    }
    cp := *r
    return &cp, nil
}

func (a memReservations) GetByOrderRef(ctx context.Context, orderRef string) (*model.Reservation, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    for _, r := range a.m.reservations {
        if r.OrderRef != nil && *r.OrderRef == orderRef {
            cp := *r
            return &cp, nil
        }
    }
    return nil, repository.ErrReservationNotFound
}

func (a memReservations) HasOverlap(ctx context.Context, slotID uint64, start, end time.Time) (bool, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    for _, r := range a.m.reservations {
        if r.SlotID != slotID || r.Status != model.ReservationActive {
            continue
        }
        if r.StartTime.Before(end) && start.Before(r.EndTime) {
            return true, nil
        }
    }
    return false, nil
}

func (a memReservations) CreateAndReserveSlot(ctx context.Context, res *model.Reservation) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    a.m.nextID++
    res.ID = a.m.nextID
    cp := *res
    a.m.reservations[cp.ID] = &cp
    a.m.slots[res.SlotID].Status = model.SlotReserved
    return nil
}

func (a memReservations) FinishAndReleaseSlot(ctx context.Context, reservationID uint64, status model.ReservationStatus, slotID uint64) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    r, ok := a.m.reservations[reservationID]
    if !ok {
        return repository.ErrReservationNotFound
    }
    r.Status = status
    a.m.slots[slotID].Status = model.SlotAvailable
    a.m.releases++
    return nil
}

func (a memReservations) SetOrderRef(ctx context.Context, id uint64, orderRef string) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    r, ok := a.m.reservations[id]
    if !ok {
        return repository.ErrReservationNotFound
    }
    r.OrderRef = &orderRef
    return nil
}

func (a memReservations) MarkPaid(ctx context.Context, id uint64, paymentRef, signature string) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    r, ok := a.m.reservations[id]
    if !ok {
        return repository.ErrReservationNotFound
    }
    r.PaymentStatus = model.PaymentPaid
    r.PaymentRef = &paymentRef
    r.Signature = &signature
    return nil
}

func (a memReservations) MarkPaymentFailed(ctx context.Context, id uint64) error {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    r, ok := a.m.reservations[id]
    if !ok {
        return repository.ErrReservationNotFound
    }
    r.PaymentStatus = model.PaymentFailed
    return nil
}

func (a memReservations) ListActive(ctx context.Context) ([]model.Reservation, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    out := make([]model.Reservation, 0)
    for _, r := range a.m.reservations {
        if r.Status == model.ReservationActive {
            out = append(out, *r)
        }
    }
    return out, nil
}

func (a memReservations) ListExpiredActive(ctx context.Context, now time.Time) ([]model.Reservation, error) {
    a.m.mu.Lock()
    defer a.m.mu.Unlock()
    out := make([]model.Reservation, 0)
    for _, r := range a.m.reservations {
        if r.Status == model.ReservationActive && !r.EndTime.After(now) {
            out = append(out, *r)
        }
    }
    return out, nil
}

// fakeProvider is a deterministic PaymentProvider.  A signature is
// valid when it equals "sig:"+orderRef+":"+paymentRef.
type fakeProvider struct {
    mu        sync.Mutex
    orders    int
    createErr error
}

func (p *fakeProvider) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.createErr != nil {
        return "", p.createErr
    }
    p.orders++
    return fmt.Sprintf("order_%d", p.orders), nil
}

func (p *fakeProvider) VerifySignature(orderRef, paymentRef, signature string) bool {
    return signature == validSignature(orderRef, paymentRef)
}

func validSignature(orderRef, paymentRef string) string {
    return "sig:" + orderRef + ":" + paymentRef
}

func (p *fakeProvider) orderCount() int {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.orders
}

// fakeEvents records ReservationPaid publications.
type fakeEvents struct {
    mu   sync.Mutex
    paid []uint64
}

func (e *fakeEvents) ReservationPaid(ctx context.Context, res *model.Reservation) error {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.paid = append(e.paid, res.ID)
    return nil
}

func (e *fakeEvents) paidCount() int {
    e.mu.Lock()
    defer e.mu.Unlock()
    return len(e.paid)
}

// newEngine wires a ReservationService over fresh fakes.
func newEngine() (*ReservationService, *memStore, *fakeProvider, *fakeEvents) {
    store := newMemStore()
    provider := &fakeProvider{}
    events := &fakeEvents{}
    svc := NewReservationService(memSlots{store}, memReservations{store}, provider, events, "INR")
    return svc, store, provider, events
}
