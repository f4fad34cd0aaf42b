package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound       = "ORD001"
	ErrCodeOrderCannotCancel   = "ORD002"
	ErrCodeVersionMismatch     = "ORD003"
	ErrCodeInsufficientStock   = "ORD004"
	ErrCodeDiscountInvalid     = "ORD005"
	ErrCodeAddressNotFound     = "ORD011"
	ErrCodeCartEmpty           = "ORD012"
	ErrCodeInvalidPayment      = "ORD013"
	ErrCodeForbidden           = "ORD014"
	ErrCodeInvalidStatus       = "ORD015"
	ErrCodeCartInvalid         = "ORD017"
	ErrCodeOrderNumberConflict = "ORD018"
	ErrCodePaymentNotRetryable = "ORD019"
	ErrCodeInternal            = "ORD500"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderCannotCancel      = errors.New("order can no longer be cancelled, please contact support")
	ErrVersionMismatch        = errors.New("version mismatch - concurrent modification detected")
	ErrCartEmpty              = errors.New("cart is empty")
	ErrCartInvalid            = errors.New("cart contains invalid items")
	ErrForbidden              = errors.New("order does not belong to this user")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrStatusTerminal         = errors.New("order is in a terminal status")
	ErrOrderNumberConflict    = errors.New("order number already exists")
	ErrDiscountNotApplicable  = errors.New("discount code is not applicable")
	ErrPaymentNotRetryable    = errors.New("order payment cannot be retried")
	ErrPaymentMethodMismatch  = errors.New("order was not placed with this payment method")
	ErrPaymentGatewayNotReady = errors.New("payment gateway is not available")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
	// Details được trả kèm response (vd: itemized cart errors)
	Details interface{}
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails gắn details cho response
func (e *OrderError) WithDetails(details interface{}) *OrderError {
	e.Details = details
	return e
}
