package handler

import (
	"time"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

// reservationView is the JSON shape of a reservation in API responses.
// Models carry no json tags; every surface that returns a reservation
// maps through this view so the wire contract stays snake_case.
type reservationView struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	SlotID        uint64    `json:"slot_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Amount        float64   `json:"amount"`
	OrderRef      *string   `json:"order_ref,omitempty"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func viewReservation(r *model.Reservation) reservationView {
	return reservationView{
		ID:            r.ID,
		UserID:        r.UserID,
		SlotID:        r.SlotID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		Amount:        r.Amount,
		OrderRef:      r.OrderRef,
		PaymentRef:    r.PaymentRef,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func viewReservations(rs []model.Reservation) []reservationView {
	out := make([]reservationView, 0, len(rs))
	for i := range rs {
		out = append(out, viewReservation(&rs[i]))
	}
	return out
}

// lotView is the JSON shape of a parking lot in admin responses.
type lotView struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	TotalSlots uint32    `json:"total_slots"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func viewLot(l *model.ParkingLot) lotView {
	return lotView{
		ID:         l.ID,
		Name:       l.Name,
		Address:    l.Address,
		TotalSlots: l.TotalSlots,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// slotView is the JSON shape of a parking slot in admin responses.
type slotView struct {
	ID         uint64    `json:"id"`
	LotID      uint64    `json:"lot_id"`
	SlotNumber uint32    `json:"slot_number"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func viewSlot(s *model.ParkingSlot) slotView {
	return slotView{
		ID:         s.ID,
		LotID:      s.LotID,
		SlotNumber: s.SlotNumber,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
