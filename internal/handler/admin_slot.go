package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
	"github.com/iliyamo/parking-slot-reservation/internal/repository"
)

type slotReq struct {
	LotID      uint64 `json:"lot_id"`
	SlotNumber uint32 `json:"slot_number"`
	Status     string `json:"status"`
}

// CreateSlots handles POST /v1/admin/slots.  The body may be a single
// slot object or an array of them; the first non-space byte decides
// which shape to decode.  Creation is all-or-nothing per request: the
// first failing slot aborts with the rows created so far reported.
func (h *AdminHandler) CreateSlots(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "unreadable body"})
	}

	var reqs []slotReq
	switch firstByte(body) {
	case '[':
		if err := json.Unmarshal(body, &reqs); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
		}
	case '{':
		var one slotReq
		if err := json.Unmarshal(body, &one); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
		}
		reqs = []slotReq{one}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "expected object or array"})
	}
	if len(reqs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "no slots provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created := make([]slotView, 0, len(reqs))
	for _, req := range reqs {
		if req.LotID == 0 || req.SlotNumber == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "lot_id and slot_number are required"})
		}
		status := model.SlotStatus(req.Status)
		if req.Status == "" {
			status = model.SlotAvailable
		}
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid slot status"})
		}
		slot := &model.ParkingSlot{LotID: req.LotID, SlotNumber: req.SlotNumber, Status: status}
		if err := h.SlotRepo.Create(ctx, slot); err != nil {
			switch err {
			case repository.ErrDuplicateSlot:
				return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "slot number already exists in lot", "created": created})
			case repository.ErrLotNotFound:
				return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "lot not found", "created": created})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "create slot failed", "created": created})
			}
		}
		created = append(created, viewSlot(slot))
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": created})
}

func firstByte(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

// ListSlots handles GET /v1/admin/slots.  Unlike the public browse
// routes this includes reserved and inactive slots.
func (h *AdminHandler) ListSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.SlotRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "list slots failed"})
	}
	out := make([]slotView, 0, len(slots))
	for i := range slots {
		out = append(out, viewSlot(&slots[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateSlot handles PUT /v1/admin/slots/:id.  Slot number and status
// are both replaced; reserved slots cannot be edited while a
// reservation holds them.
func (h *AdminHandler) UpdateSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid slot id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}
	status := model.SlotStatus(req.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid slot status"})
	}
	if req.SlotNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "slot_number is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.SlotRepo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "load slot failed"})
	}
	if current.Status == model.SlotReserved {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "slot is held by an active reservation"})
	}

	current.SlotNumber = req.SlotNumber
	current.Status = status
	if err := h.SlotRepo.Update(ctx, current); err != nil {
		if err == repository.ErrDuplicateSlot {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "slot number already exists in lot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "update slot failed"})
	}
	return c.JSON(http.StatusOK, viewSlot(current))
}

// SetSlotStatus handles PATCH /v1/admin/slots/:id/status.  Flipping a
// reserved slot directly is refused; the reservation lifecycle owns
// that transition.
func (h *AdminHandler) SetSlotStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid slot id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}
	status := model.SlotStatus(req.Status)
	if !status.Valid() || status == model.SlotReserved {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "status must be available or inactive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.SlotRepo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "load slot failed"})
	}
	if current.Status == model.SlotReserved {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "slot is held by an active reservation"})
	}

	if err := h.SlotRepo.SetStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "set slot status failed"})
	}
	current.Status = status
	return c.JSON(http.StatusOK, viewSlot(current))
}

// DeleteSlot handles DELETE /v1/admin/slots/:id.
func (h *AdminHandler) DeleteSlot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid slot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.SlotRepo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "load slot failed"})
	}
	if current.Status == model.SlotReserved {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "message": "slot is held by an active reservation"})
	}

	if err := h.SlotRepo.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "delete slot failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
