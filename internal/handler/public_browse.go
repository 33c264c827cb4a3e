// Package handler exposes HTTP handlers for both authenticated and public
// endpoints.  This file defines handlers for the public browsing API.
// These routes let unauthenticated users discover lots and open slots;
// responses carry only safe fields.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	LotRepo  *repository.LotRepo  // provides access to parking lot data
	SlotRepo *repository.SlotRepo // provides access to parking slot data
}

// PublicLot represents a parking lot exposed via the public API.
type PublicLot struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	TotalSlots uint32 `json:"total_slots"`
}

// PublicSlot represents a slot in list responses.
type PublicSlot struct {
	ID         uint64 `json:"id"`
	LotID      uint64 `json:"lot_id"`
	SlotNumber uint32 `json:"slot_number"`
	Status     string `json:"status"`
}

// GetLots returns every parking lot.  Response JSON contains an "items"
// array of PublicLot.
func (h *PublicHandler) GetLots(c echo.Context) error {
	ctx := c.Request().Context()
	lots, err := h.LotRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "database error"})
	}
	out := make([]PublicLot, 0, len(lots))
	for _, l := range lots {
		out = append(out, PublicLot{ID: l.ID, Name: l.Name, Address: l.Address, TotalSlots: l.TotalSlots})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetLotSlots lists the slots of one lot.  It validates the lot exists
// before listing.
func (h *PublicHandler) GetLotSlots(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid lot id"})
	}
	if _, err := h.LotRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "database error"})
	}
	slots, err := h.SlotRepo.ListByLot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "database error"})
	}
	out := make([]PublicSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, PublicSlot{ID: s.ID, LotID: s.LotID, SlotNumber: s.SlotNumber, Status: string(s.Status)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailableSlots lists every slot currently open for reservation
// across all lots.
func (h *PublicHandler) GetAvailableSlots(c echo.Context) error {
	ctx := c.Request().Context()
	slots, err := h.SlotRepo.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "database error"})
	}
	out := make([]PublicSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, PublicSlot{ID: s.ID, LotID: s.LotID, SlotNumber: s.SlotNumber, Status: string(s.Status)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
