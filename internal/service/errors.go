package service

// Stable machine-readable error codes returned by the reservation
// service.  Handlers translate codes into HTTP statuses; clients branch
// on the code, never on the human-readable message.
const (
    CodeInvalidRequest            = "invalid_request"
    CodeNotFound                  = "not_found"
    CodeSlotUnavailable           = "slot_unavailable"
    CodeInvalidState              = "invalid_state"
    CodePaymentVerificationFailed = "payment_verification_failed"
    CodeProviderError             = "provider_error"
    CodeUnauthorized              = "unauthorized"
)

// Error carries a stable code alongside a human-readable message.  Two
// Errors compare equal under errors.Is when their codes match, so a
// sentinel below matches every variant of its kind regardless of the
// message text.
type Error struct {
    Code    string `json:"code"`
    Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Is matches service errors by code so callers can use errors.Is
// against the sentinels without string-matching messages.
func (e *Error) Is(target error) bool {
    t, ok := target.(*Error)
    return ok && t.Code == e.Code
}

// Sentinel values, one per error kind.  Operations that need a more
// specific message construct a variant with the same code via the
// helpers below; errors.Is still matches the sentinel.
var (
    ErrInvalidRequest            = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
    ErrNotFound                  = &Error{Code: CodeNotFound, Message: "not found"}
    ErrSlotUnavailable           = &Error{Code: CodeSlotUnavailable, Message: "slot is not available"}
    ErrInvalidState              = &Error{Code: CodeInvalidState, Message: "operation not valid for current state"}
    ErrPaymentVerificationFailed = &Error{Code: CodePaymentVerificationFailed, Message: "payment signature verification failed"}
    ErrProviderError             = &Error{Code: CodeProviderError, Message: "payment provider error"}
    ErrUnauthorized              = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
)

func invalidRequest(msg string) *Error  { return &Error{Code: CodeInvalidRequest, Message: msg} }
func notFound(msg string) *Error        { return &Error{Code: CodeNotFound, Message: msg} }
func slotUnavailable(msg string) *Error { return &Error{Code: CodeSlotUnavailable, Message: msg} }
func invalidState(msg string) *Error    { return &Error{Code: CodeInvalidState, Message: msg} }
func providerError(msg string) *Error   { return &Error{Code: CodeProviderError, Message: msg} }
