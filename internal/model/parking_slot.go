package model

import "time"

// SlotStatus enumerates the valid states of a parking slot.  The set is
// fixed; free-form strings drifted between revisions of earlier systems
// ("open" vs "available") and a typed enum removes that class of bug.
type SlotStatus string

const (
    SlotAvailable SlotStatus = "available" // slot can accept a new reservation
    SlotReserved  SlotStatus = "reserved"  // slot is held by an active reservation
    SlotInactive  SlotStatus = "inactive"  // slot is administratively disabled
)

// Valid reports whether s is one of the three known slot states.
func (s SlotStatus) Valid() bool {
    switch s {
    case SlotAvailable, SlotReserved, SlotInactive:
        return true
    }
    return false
}

// ParkingSlot represents an individually reservable unit belonging to a
// lot, as stored in the `parking_slots` table.  The slot number is
// unique within its lot.  Status is maintained in lockstep with the
// reservation lifecycle by the allocation engine; only administrators
// may override it directly (e.g. to mark a slot inactive).
//
// Fields:
//  ID         – primary key identifier.
//  LotID      – owning parking lot.
//  SlotNumber – number unique within the lot.
//  Status     – one of available, reserved, inactive.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type ParkingSlot struct {
    ID         uint64     // parking_slots.id
    LotID      uint64     // parking_slots.lot_id
    SlotNumber uint32     // parking_slots.slot_number
    Status     SlotStatus // parking_slots.status
    CreatedAt  time.Time  // parking_slots.created_at
    UpdatedAt  time.Time  // parking_slots.updated_at
}
