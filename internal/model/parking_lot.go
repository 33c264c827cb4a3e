package model

import "time"

// ParkingLot represents a named collection of parking slots as stored
// in the `parking_lots` table.  Lots are created and maintained by
// administrators.  Deleting a lot cascades to its slots and their
// reservations at the database level.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the lot.
//  Address    – free-form postal address (may be empty).
//  TotalSlots – declared number of slots in the lot.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type ParkingLot struct {
    ID         uint64    // parking_lots.id
    Name       string    // parking_lots.name
    Address    string    // parking_lots.address
    TotalSlots uint32    // parking_lots.total_slots
    CreatedAt  time.Time // parking_lots.created_at
    UpdatedAt  time.Time // parking_lots.updated_at
}
