package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/parking-slot-reservation/internal/model"
)

// LotRepo provides CRUD operations over the parking_lots table.  Lots
// are managed by administrators; deleting a lot cascades to its slots
// and their reservations through foreign keys.
type LotRepo struct {
    db *sql.DB
}

// NewLotRepo returns a new LotRepo bound to the given database.
func NewLotRepo(db *sql.DB) *LotRepo { return &LotRepo{db: db} }

// Create inserts a new lot and populates its generated ID and
// timestamps on the provided struct.
func (r *LotRepo) Create(ctx context.Context, lot *model.ParkingLot) error {
    const q = `INSERT INTO parking_lots (name, address, total_slots) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, lot.Name, lot.Address, lot.TotalSlots)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    lot.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM parking_lots WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, lot.ID).Scan(&lot.CreatedAt, &lot.UpdatedAt)
}

// GetByID returns a single lot or ErrLotNotFound.
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingLot, error) {
    const q = `SELECT id, name, address, total_slots, created_at, updated_at
               FROM parking_lots WHERE id = ?`
    var lot model.ParkingLot
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &lot.ID, &lot.Name, &lot.Address, &lot.TotalSlots, &lot.CreatedAt, &lot.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrLotNotFound
        }
        return nil, err
    }
    return &lot, nil
}

// List returns all lots ordered by name.
func (r *LotRepo) List(ctx context.Context) ([]model.ParkingLot, error) {
    const q = `SELECT id, name, address, total_slots, created_at, updated_at
               FROM parking_lots ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lots := make([]model.ParkingLot, 0)
    for rows.Next() {
        var lot model.ParkingLot
        if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.TotalSlots, &lot.CreatedAt, &lot.UpdatedAt); err != nil {
            return nil, err
        }
        lots = append(lots, lot)
    }
    return lots, rows.Err()
}

// Update rewrites the mutable columns of a lot.  It returns
// ErrLotNotFound when no row matches the ID.
func (r *LotRepo) Update(ctx context.Context, lot *model.ParkingLot) error {
    const q = `UPDATE parking_lots SET name = ?, address = ?, total_slots = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, lot.Name, lot.Address, lot.TotalSlots, lot.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // RowsAffected is also 0 when the values did not change; confirm
        // existence before reporting not found.
        if _, err := r.GetByID(ctx, lot.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a lot.  Slots and reservations under the lot are
// removed by ON DELETE CASCADE.  Returns ErrLotNotFound when the lot
// does not exist.
func (r *LotRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM parking_lots WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrLotNotFound
    }
    return nil
}
