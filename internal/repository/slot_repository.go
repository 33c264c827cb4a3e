package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/parking-slot-reservation/internal/model"
)

// SlotRepo provides data access to the parking_slots table.  Slot
// status writes performed here are unconditional: semantic correctness
// (only the allocator moves available to reserved, and status flips
// happen under the slot's allocation lock) is enforced by the service
// layer, not by this repository.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// Create inserts a new slot and populates its generated ID and
// timestamps.  A duplicate slot number within the lot yields
// ErrDuplicateSlot; a missing lot yields ErrLotNotFound.
func (r *SlotRepo) Create(ctx context.Context, slot *model.ParkingSlot) error {
    const q = `INSERT INTO parking_slots (lot_id, slot_number, status) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, slot.LotID, slot.SlotNumber, slot.Status)
    if err != nil {
        // MySQL 1062 = duplicate key, 1452 = FK violation (unknown lot).
        msg := err.Error()
        if strings.Contains(msg, "1062") {
            return ErrDuplicateSlot
        }
        if strings.Contains(msg, "1452") {
            return ErrLotNotFound
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    slot.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM parking_slots WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, slot.ID).Scan(&slot.CreatedAt, &slot.UpdatedAt)
}

// Get returns a single slot or ErrSlotNotFound.
func (r *SlotRepo) Get(ctx context.Context, id uint64) (*model.ParkingSlot, error) {
    const q = `SELECT id, lot_id, slot_number, status, created_at, updated_at
               FROM parking_slots WHERE id = ?`
    var s model.ParkingSlot
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.LotID, &s.SlotNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSlotNotFound
        }
        return nil, err
    }
    return &s, nil
}

// SetStatus performs an unconditional status write.  Callers must hold
// the allocation lock for the slot when the write participates in a
// reserve/release transition.
func (r *SlotRepo) SetStatus(ctx context.Context, id uint64, status model.SlotStatus) error {
    const q = `UPDATE parking_slots SET status = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.Get(ctx, id); err != nil {
            return err
        }
    }
    return nil
}

// ListByLot returns all slots in a lot ordered by slot number.
func (r *SlotRepo) ListByLot(ctx context.Context, lotID uint64) ([]model.ParkingSlot, error) {
    const q = `SELECT id, lot_id, slot_number, status, created_at, updated_at
               FROM parking_slots WHERE lot_id = ? ORDER BY slot_number`
    return r.list(ctx, q, lotID)
}

// ListAvailable returns every slot currently in the available state,
// ordered by lot then slot number.  Used by the public browse endpoint.
func (r *SlotRepo) ListAvailable(ctx context.Context) ([]model.ParkingSlot, error) {
    const q = `SELECT id, lot_id, slot_number, status, created_at, updated_at
               FROM parking_slots WHERE status = ? ORDER BY lot_id, slot_number`
    return r.list(ctx, q, model.SlotAvailable)
}

// ListAll returns every slot in the system ordered by lot then number.
func (r *SlotRepo) ListAll(ctx context.Context) ([]model.ParkingSlot, error) {
    const q = `SELECT id, lot_id, slot_number, status, created_at, updated_at
               FROM parking_slots ORDER BY lot_id, slot_number`
    return r.list(ctx, q)
}

func (r *SlotRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.ParkingSlot, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    slots := make([]model.ParkingSlot, 0)
    for rows.Next() {
        var s model.ParkingSlot
        if err := rows.Scan(&s.ID, &s.LotID, &s.SlotNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        slots = append(slots, s)
    }
    return slots, rows.Err()
}

// Update rewrites the slot number and status of a slot.  Used by the
// admin update endpoint; the status write bypasses the allocator, which
// is the documented admin override.
func (r *SlotRepo) Update(ctx context.Context, slot *model.ParkingSlot) error {
    const q = `UPDATE parking_slots SET slot_number = ?, status = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, slot.SlotNumber, slot.Status, slot.ID)
    if err != nil {
        if strings.Contains(err.Error(), "1062") {
            return ErrDuplicateSlot
        }
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.Get(ctx, slot.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a slot; its reservations are removed by cascade.
func (r *SlotRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM parking_slots WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSlotNotFound
    }
    return nil
}
