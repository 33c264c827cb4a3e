// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them and the background consumer that records them.
package queue

// ReservationPaidEvent is published when a reservation's payment is
// confirmed. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type ReservationPaidEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	SlotID        uint64  `json:"slot_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Amount        float64 `json:"amount"`
	OrderRef      string  `json:"order_ref"`
	PaymentRef    string  `json:"payment_ref"`
	PaidAt        string  `json:"paid_at"`
}
