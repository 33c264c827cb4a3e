package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-slot-reservation/internal/handler"
	"github.com/iliyamo/parking-slot-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers can reserve slots,
// cancel their reservations, pay for them and fetch their entry tickets.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: browsing lots and slot availability is registered on the public
	// router so that guests can look before registering.  Customer-specific
	// endpoints begin here.
	g.POST("/reservations", h.Reserve)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/my-reservations", h.MyReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.GET("/reservations/:id/ticket", h.Ticket)
	g.POST("/reservations/:id/payment", h.InitiatePayment)
}
