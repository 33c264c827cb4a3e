package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
	"github.com/iliyamo/parking-slot-reservation/internal/repository"
	"github.com/iliyamo/parking-slot-reservation/internal/service"
	"github.com/iliyamo/parking-slot-reservation/internal/ticket"
)

// CustomerHandler serves the reservation lifecycle for authenticated
// customers.  The engine owns all state transitions; the handler only
// binds, delegates and renders.  Methods may return 401 Unauthorized if
// the user ID cannot be extracted from the context.
type CustomerHandler struct {
	Engine          *service.ReservationService
	ReservationRepo *repository.ReservationRepo
}

// NewCustomerHandler constructs a CustomerHandler.  Both dependencies
// must be non-nil.
func NewCustomerHandler(engine *service.ReservationService, reservations *repository.ReservationRepo) *CustomerHandler {
	if engine == nil || reservations == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, ReservationRepo: reservations}
}

type reserveReq struct {
	SlotID    uint64    `json:"slot_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Amount    float64   `json:"amount"`
}

// Reserve handles POST /v1/reservations.  On success the reservation is
// active with payment pending and the slot is flipped to reserved in
// the same transaction.
func (h *CustomerHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}

	res, err := h.Engine.Reserve(c.Request().Context(), userID, req.SlotID, req.StartTime, req.EndTime, req.Amount)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, viewReservation(res))
}

// Cancel handles DELETE /v1/reservations/:id.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid reservation id"})
	}

	if err := h.Engine.Cancel(c.Request().Context(), id, userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyReservations handles GET /v1/my-reservations.
func (h *CustomerHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": viewReservations(items)})
}

// GetReservation handles GET /v1/reservations/:id.  Reservations owned
// by other users read as not found.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
	res, ok := h.ownedReservation(c)
	if !ok {
		return nil // response already written
	}
	return c.JSON(http.StatusOK, viewReservation(res))
}

// Ticket handles GET /v1/reservations/:id/ticket.  Only paid
// reservations have tickets; the response is a QR code PNG.
func (h *CustomerHandler) Ticket(c echo.Context) error {
	res, ok := h.ownedReservation(c)
	if !ok {
		return nil
	}
	if res.PaymentStatus != model.PaymentPaid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "reservation is not paid"})
	}

	size := 256
	if s := c.QueryParam("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}
	png, err := ticket.Render(res, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "render ticket failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// ownedReservation loads the reservation in :id and enforces ownership.
// When ok is false the error response has already been written.
func (h *CustomerHandler) ownedReservation(c echo.Context) (*model.Reservation, bool) {
	userID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
		return nil, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid reservation id"})
		return nil, false
	}
	res, err := h.ReservationRepo.Get(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "reservation not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "load reservation failed"})
		}
		return nil, false
	}
	if res.UserID != userID {
		// Indistinguishable from nonexistent to prevent ID probing.
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "reservation not found"})
		return nil, false
	}
	return res, true
}
