package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
	"github.com/iliyamo/parking-slot-reservation/internal/repository"
	"github.com/iliyamo/parking-slot-reservation/internal/service"
)

// AdminHandler bundles the repositories and the reservation engine the
// admin surface manipulates.  All routes assume JWT authentication and
// the ADMIN role have been enforced by middleware.
type AdminHandler struct {
	LotRepo         *repository.LotRepo
	SlotRepo        *repository.SlotRepo
	ReservationRepo *repository.ReservationRepo
	UserRepo        *repository.UserRepo
	Engine          *service.ReservationService
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(lots *repository.LotRepo, slots *repository.SlotRepo, reservations *repository.ReservationRepo, users *repository.UserRepo, engine *service.ReservationService) *AdminHandler {
	if lots == nil || slots == nil || reservations == nil || users == nil || engine == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		LotRepo:         lots,
		SlotRepo:        slots,
		ReservationRepo: reservations,
		UserRepo:        users,
		Engine:          engine,
	}
}

type lotReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateLot handles POST /v1/admin/lots.
func (h *AdminHandler) CreateLot(c echo.Context) error {
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot := &model.ParkingLot{Name: req.Name, Address: strings.TrimSpace(req.Address)}
	if err := h.LotRepo.Create(ctx, lot); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "create lot failed"})
	}
	return c.JSON(http.StatusCreated, viewLot(lot))
}

// UpdateLot handles PUT /v1/admin/lots/:id.
func (h *AdminHandler) UpdateLot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid lot id"})
	}
	var req lotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lot := &model.ParkingLot{ID: id, Name: req.Name, Address: strings.TrimSpace(req.Address)}
	if err := h.LotRepo.Update(ctx, lot); err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "update lot failed"})
	}
	updated, err := h.LotRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "load lot failed"})
	}
	return c.JSON(http.StatusOK, viewLot(updated))
}

// DeleteLot handles DELETE /v1/admin/lots/:id.  Slots under the lot are
// removed by the schema's cascade.
func (h *AdminHandler) DeleteLot(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid lot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.LotRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrLotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "delete lot failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /v1/admin/users.  Password hashes never leave
// the server.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.UserRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "list users failed"})
	}
	type userItem struct {
		ID       uint64 `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]userItem, 0, len(users))
	for _, u := range users {
		out = append(out, userItem{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListReservations handles GET /v1/admin/reservations.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.ReservationRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": viewReservations(items)})
}

// CancelAllReservations handles POST /v1/admin/reservations/cancel-all.
// Every active reservation is cancelled and its slot released.
func (h *AdminHandler) CancelAllReservations(c echo.Context) error {
	n, err := h.Engine.CancelAll(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}
