package model

import (
	"errors"
	"fmt"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodePaymentNotFound     = "PAY001"
	ErrCodeOrderAlreadyPaid    = "PAY002"
	ErrCodeInvalidGateway      = "PAY005"
	ErrCodeInvalidSignature    = "PAY012"
	ErrCodeGatewayTimeout      = "PAY015"
	ErrCodeGatewayUnavailable  = "PAY016"
	ErrCodeGatewayRejected     = "PAY017"
	ErrCodeOrderClosed         = "PAY022"
	ErrCodeInternalError       = "PAY024"
	ErrCodeAmountMismatch      = "PAY025"
	ErrCodeInvalidCallbackData = "PAY026"
	ErrCodeAttemptMismatch     = "PAY027"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrOrderAlreadyPaid    = errors.New("order already paid")
	ErrInvalidGateway      = errors.New("order is not paid via momo")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrOrderClosed         = errors.New("order is cancelled or returned")
	ErrAmountMismatch      = errors.New("paid amount does not match order total")
	ErrInvalidCallbackData = errors.New("invalid callback data")
	ErrAttemptMismatch     = errors.New("gateway order id is not the current payment attempt")
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewPaymentNotFoundError(orderNumber string) *PaymentError {
	return NewPaymentError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("No MoMo payment has been started for order %s", orderNumber),
		ErrPaymentNotFound,
	)
}

func NewInvalidSignatureError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidSignature,
		"Invalid webhook signature - possible fraud attempt",
		errors.Join(ErrInvalidSignature, err),
	)
}

func NewOrderClosedError(orderNumber string) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderClosed,
		fmt.Sprintf("Order %s is cancelled or returned, payment cannot be applied", orderNumber),
		ErrOrderClosed,
	)
}

func NewAmountMismatchError(expected, got string) *PaymentError {
	return NewPaymentError(
		ErrCodeAmountMismatch,
		fmt.Sprintf("Paid amount %s does not match order total %s", got, expected),
		ErrAmountMismatch,
	)
}

func NewInvalidCallbackError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidCallbackData,
		"Invalid MoMo callback data",
		errors.Join(ErrInvalidCallbackData, err),
	)
}

func NewAttemptMismatchError(orderNumber, gatewayOrderID string) *PaymentError {
	return NewPaymentError(
		ErrCodeAttemptMismatch,
		fmt.Sprintf("%s is not the current MoMo attempt of order %s", gatewayOrderID, orderNumber),
		ErrAttemptMismatch,
	)
}
