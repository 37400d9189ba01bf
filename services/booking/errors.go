package booking

import "errors"

// ErrorCode is the machine-readable code attached to a creation failure.
// The client layer localizes these; they are never free text.
type ErrorCode string

const (
	CodeUserNotFound                 ErrorCode = "UserNotFound"
	CodeAddressRequired              ErrorCode = "AddressRequired"
	CodeSubscriptionRedemptionFailed ErrorCode = "SubscriptionRedemptionFailed"
	CodeVoucherInactive              ErrorCode = "VoucherInactive"
	CodeVoucherInsufficientBalance   ErrorCode = "VoucherInsufficientBalance"
	CodeCouponApplyFailed            ErrorCode = "CouponApplyFailed"
)

// CreationError aborts the whole creation transaction; no partial effect
// survives it.
type CreationError struct {
	Code    ErrorCode
	Message string
}

func (e *CreationError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func creationErr(code ErrorCode, msg string) *CreationError {
	return &CreationError{Code: code, Message: msg}
}

// AsCreationError unwraps err into a CreationError, or nil.
func AsCreationError(err error) *CreationError {
	var ce *CreationError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

var (
	// ErrUnauthorized is deliberately generic so a rejection leaks nothing
	// about the booking's existence or details.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition rejects a status change the state machine does
	// not permit, including any move out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBookingNotFound is returned when the target booking is absent.
	ErrBookingNotFound = errors.New("booking not found")
)
