package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RetryPaymentResponse trả về cho POST /orders/:id/retry-payment
type RetryPaymentResponse struct {
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	PayURL         string          `json:"pay_url"`
}

// QueryPaymentRequest cho GET /payments/momo/query
type QueryPaymentRequest struct {
	OrderNumber string `form:"order_number" binding:"required"`
}

// QueryPaymentResponse là trạng thái thanh toán sau khi hỏi Momo
type QueryPaymentResponse struct {
	OrderNumber    string     `json:"order_number"`
	GatewayOrderID string     `json:"gateway_order_id"`
	ResultCode     int        `json:"result_code"`
	Message        string     `json:"message"`
	Final          bool       `json:"final"`
	Outcome        string     `json:"outcome"`
	PaymentStatus  string     `json:"payment_status"`
	StatusID       int        `json:"status_id"`
	TransID        *string    `json:"trans_id,omitempty"`
	PaymentTime    *time.Time `json:"payment_time,omitempty"`
}

// Trạng thái gửi về frontend sau redirect
const (
	ReturnStatusSuccess = "success"
	ReturnStatusFailed  = "failed"
	ReturnStatusPending = "pending"
	ReturnStatusError   = "error"
)

// ReturnResult là dữ liệu redirect về frontend: orderId, status, transId, message
type ReturnResult struct {
	OrderNumber string
	Status      string
	TransID     string
	Message     string
}
