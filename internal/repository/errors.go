// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation service and handlers to distinguish between different
// failure scenarios without inspecting SQL driver errors directly.
package repository

import "errors"

// ErrLotNotFound is returned when a parking lot does not exist.
var ErrLotNotFound = errors.New("parking lot not found")

// ErrSlotNotFound is returned when a parking slot does not exist.
var ErrSlotNotFound = errors.New("parking slot not found")

// ErrReservationNotFound is returned when a reservation does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateSlot is returned when creating a slot whose number is
// already taken within its lot (unique key on lot_id + slot_number).
var ErrDuplicateSlot = errors.New("slot number already exists in lot")
