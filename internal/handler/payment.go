package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// InitiatePayment handles POST /v1/reservations/:id/payment.  It asks
// the payment gateway for an order covering the reservation amount and
// returns the order reference the client completes checkout with.
func (h *CustomerHandler) InitiatePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid reservation id"})
	}

	order, err := h.Engine.InitiatePayment(c.Request().Context(), id, userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type confirmPaymentReq struct {
	OrderRef   string `json:"order_ref"`
	PaymentRef string `json:"payment_ref"`
	Signature  string `json:"signature"`
}

// ConfirmPayment handles POST /v1/payments/verify, the gateway's
// confirmation callback.  The route is unauthenticated: the HMAC
// signature is the credential, so no JWT is required.
func (h *CustomerHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid body"})
	}

	res, err := h.Engine.ConfirmPayment(c.Request().Context(), req.OrderRef, req.PaymentRef, req.Signature)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, viewReservation(res))
}
