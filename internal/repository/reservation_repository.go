package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/parking-slot-reservation/internal/model"
)

// ReservationRepo provides data access to the reservations table.  All
// timestamp columns are stored in UTC.  The two multi-row writes of the
// allocation engine (create reservation + flip slot, finish reservation
// + release slot) are each executed inside a single transaction here so
// that a failure between the writes rolls both back.  Serializing those
// transactions against concurrent requests on the same slot is the
// service layer's job (per-slot lock); this repository only guarantees
// that neither write pair can half-commit.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, user_id, slot_id, start_time, end_time, status,
    payment_status, amount, order_ref, payment_ref, signature, created_at, updated_at`

// scanReservation reads one row laid out as reservationCols.
func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
    var res model.Reservation
    var orderRef, paymentRef, signature sql.NullString
    err := row.Scan(
        &res.ID, &res.UserID, &res.SlotID, &res.StartTime, &res.EndTime, &res.Status,
        &res.PaymentStatus, &res.Amount, &orderRef, &paymentRef, &signature,
        &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if orderRef.Valid {
        v := orderRef.String
        res.OrderRef = &v
    }
    if paymentRef.Valid {
        v := paymentRef.String
        res.PaymentRef = &v
    }
    if signature.Valid {
        v := signature.String
        res.Signature = &v
    }
    return &res, nil
}

// Get returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// GetByOrderRef looks a reservation up by the payment provider's order
// reference.  Used by the payment confirmation callback, which carries
// no reservation ID of its own.
func (r *ReservationRepo) GetByOrderRef(ctx context.Context, orderRef string) (*model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations WHERE order_ref = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, orderRef))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// HasOverlap reports whether any active reservation on the slot
// overlaps the half-open interval [start, end).  Two intervals overlap
// iff s1 < e2 AND s2 < e1 with strict inequalities, so a reservation
// ending exactly when another begins does not conflict.  Cancelled and
// completed reservations are excluded.
func (r *ReservationRepo) HasOverlap(ctx context.Context, slotID uint64, start, end time.Time) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM reservations
                   WHERE slot_id = ? AND status = ? AND start_time < ? AND end_time > ?
               )`
    var exists bool
    err := r.db.QueryRowContext(ctx, q, slotID, model.ReservationActive, end, start).Scan(&exists)
    return exists, err
}

// CreateAndReserveSlot inserts a reservation and flips its slot to the
// reserved state in one transaction.  The generated ID and timestamps
// are populated on the provided struct.  Callers must hold the slot's
// allocation lock and have already verified availability and overlap.
func (r *ReservationRepo) CreateAndReserveSlot(ctx context.Context, res *model.Reservation) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    const ins = `INSERT INTO reservations
                 (user_id, slot_id, start_time, end_time, status, payment_status, amount)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
    out, err := tx.ExecContext(ctx, ins,
        res.UserID, res.SlotID, res.StartTime, res.EndTime, res.Status, res.PaymentStatus, res.Amount)
    if err != nil {
        return err
    }
    id, err := out.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const flip = `UPDATE parking_slots SET status = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, flip, model.SlotReserved, res.SlotID); err != nil {
        return err
    }
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// FinishAndReleaseSlot moves a reservation to a terminal status
// (cancelled or completed) and returns its slot to the available state,
// both in one transaction.  Callers must hold the reservation and slot
// locks and have already validated the transition.
func (r *ReservationRepo) FinishAndReleaseSlot(ctx context.Context, reservationID uint64, status model.ReservationStatus, slotID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    const upd = `UPDATE reservations SET status = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, upd, status, reservationID); err != nil {
        return err
    }
    const rel = `UPDATE parking_slots SET status = ? WHERE id = ?`
    if _, err := tx.ExecContext(ctx, rel, model.SlotAvailable, slotID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// SetOrderRef stores the provider order reference issued by
// initiate-payment.  Repeated initiations overwrite the previous
// reference; the latest one wins.
func (r *ReservationRepo) SetOrderRef(ctx context.Context, id uint64, orderRef string) error {
    const q = `UPDATE reservations SET order_ref = ? WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, orderRef, id)
    return err
}

// MarkPaid records a successful payment confirmation: payment status,
// provider payment reference and signature in one write.
func (r *ReservationRepo) MarkPaid(ctx context.Context, id uint64, paymentRef, signature string) error {
    const q = `UPDATE reservations SET payment_status = ?, payment_ref = ?, signature = ? WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, model.PaymentPaid, paymentRef, signature, id)
    return err
}

// MarkPaymentFailed records a failed signature verification.  Only the
// payment status changes; the reservation stays active and keeps its
// slot until the user or an admin cancels it.
func (r *ReservationRepo) MarkPaymentFailed(ctx context.Context, id uint64) error {
    const q = `UPDATE reservations SET payment_status = ? WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, model.PaymentFailed, id)
    return err
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE user_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, userID)
}

// ListAll returns every reservation in the system, newest first.  Used
// by the admin overview endpoint.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations ORDER BY created_at DESC`
    return r.list(ctx, q)
}

// ListActive returns all reservations currently in the active state.
// Used by the admin bulk-cancel operation.
func (r *ReservationRepo) ListActive(ctx context.Context) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE status = ? ORDER BY id`
    return r.list(ctx, q, model.ReservationActive)
}

// ListExpiredActive returns active reservations whose end time is at or
// before the given instant.  Used by the completion sweeper.
func (r *ReservationRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE status = ? AND end_time <= ? ORDER BY id`
    return r.list(ctx, q, model.ReservationActive, now)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}
