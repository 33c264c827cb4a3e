// Package ticket renders scannable entry tickets for paid
// reservations.  A ticket is a QR code PNG encoding the reservation
// snapshot; the gate scanner decodes it offline.
package ticket

import (
	"encoding/json"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

// payload is what the QR code carries.  Times are RFC 3339 in UTC so
// scanners do not need the server's zone.
type payload struct {
	ReservationID uint64 `json:"reservation_id"`
	SlotID        uint64 `json:"slot_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	PaymentRef    string `json:"payment_ref"`
}

// Render produces a PNG QR ticket for a reservation.  Only paid
// reservations have tickets; callers gate on payment status before
// rendering.
func Render(res *model.Reservation, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	p := payload{
		ReservationID: res.ID,
		SlotID:        res.SlotID,
		StartTime:     res.StartTime.UTC().Format(time.RFC3339),
		EndTime:       res.EndTime.UTC().Format(time.RFC3339),
	}
	if res.PaymentRef != nil {
		p.PaymentRef = *res.PaymentRef
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode ticket qr: %w", err)
	}
	return png, nil
}
