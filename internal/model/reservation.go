package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
    ReservationActive    ReservationStatus = "active"    // holds its slot; counts toward overlap checks
    ReservationCompleted ReservationStatus = "completed" // end time passed; slot released
    ReservationCancelled ReservationStatus = "cancelled" // cancelled by the user or an admin; slot released
)

// PaymentStatus enumerates the payment states of a reservation.
type PaymentStatus string

const (
    PaymentPending PaymentStatus = "pending" // no confirmed payment yet
    PaymentPaid    PaymentStatus = "paid"    // provider confirmed with a valid signature
    PaymentFailed  PaymentStatus = "failed"  // provider callback carried an invalid signature
)

// Reservation records a user's time-bounded claim on a parking slot, as
// stored in the `reservations` table.  The [StartTime, EndTime)
// interval is half-open: a reservation ending exactly when another
// begins does not conflict with it.  Payment identifiers are populated
// as the external payment flow progresses and remain nil before that.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who made the reservation.
//  SlotID        – slot being reserved.
//  StartTime     – inclusive start of the interval (UTC).
//  EndTime       – exclusive end of the interval (UTC); strictly after StartTime.
//  Status        – lifecycle state (active, completed, cancelled).
//  PaymentStatus – payment state (pending, paid, failed).
//  Amount        – price for the interval in the configured currency.
//  OrderRef      – provider order reference from initiate-payment (nullable).
//  PaymentRef    – provider payment reference from the confirmation callback (nullable).
//  Signature     – provider signature stored with a successful confirmation (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
    ID            uint64            // reservations.id
    UserID        uint64            // reservations.user_id
    SlotID        uint64            // reservations.slot_id
    StartTime     time.Time         // reservations.start_time
    EndTime       time.Time         // reservations.end_time
    Status        ReservationStatus // reservations.status
    PaymentStatus PaymentStatus     // reservations.payment_status
    Amount        float64           // reservations.amount
    OrderRef      *string           // reservations.order_ref (nullable)
    PaymentRef    *string           // reservations.payment_ref (nullable)
    Signature     *string           // reservations.signature (nullable)
    CreatedAt     time.Time         // reservations.created_at
    UpdatedAt     time.Time         // reservations.updated_at
}
