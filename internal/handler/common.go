package handler // handler defines http handlers

import (
	"errors"   // errors provides sentinel comparison for service errors
	"net/http" // HTTP status codes
	"strconv"  // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/parking-slot-reservation/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// writeServiceError translates a reservation service error into the HTTP
// response contract: the machine code goes into "error", the human text
// into "message".  Unknown errors become a 500 without leaking internals.
func writeServiceError(c echo.Context, err error) error {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "internal server error"})
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case service.CodeInvalidRequest, service.CodePaymentVerificationFailed:
		status = http.StatusBadRequest
	case service.CodeUnauthorized:
		status = http.StatusForbidden
	case service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeSlotUnavailable, service.CodeInvalidState:
		status = http.StatusConflict
	case service.CodeProviderError:
		status = http.StatusBadGateway
	}
	return c.JSON(status, echo.Map{"error": svcErr.Code, "message": svcErr.Message})
}
