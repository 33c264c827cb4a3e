package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/handler"    // admin handlers
	"github.com/iliyamo/parking-slot-reservation/internal/middleware" // JWT + role middlewares
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Lots ----
	g.POST("/lots", a.CreateLot)
	// NOTE: Listing lots is handled by the public browse API at /v1/lots.
	g.PUT("/lots/:id", a.UpdateLot)
	g.PATCH("/lots/:id", a.UpdateLot) // allow partial/semantic updates via PATCH as well
	g.DELETE("/lots/:id", a.DeleteLot)

	// ---- Slots ----
	g.POST("/slots", a.CreateSlots) // accepts a single slot object or an array
	g.GET("/slots", a.ListSlots)
	g.PUT("/slots/:id", a.UpdateSlot)
	g.PATCH("/slots/:id/status", a.SetSlotStatus)
	g.DELETE("/slots/:id", a.DeleteSlot)

	// ---- Oversight ----
	g.GET("/users", a.ListUsers)
	g.GET("/reservations", a.ListReservations)
	g.POST("/reservations/cancel-all", a.CancelAllReservations)
}
