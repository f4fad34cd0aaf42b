package model

import "github.com/google/uuid"

// PaymentSuccessPayload cho task payment:send_success_email
type PaymentSuccessPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	Amount      string    `json:"amount"`
	TransID     string    `json:"trans_id"`
}

// ReconcilePendingPayload cho task định kỳ payment:reconcile_pending_momo
type ReconcilePendingPayload struct {
	OlderThanMinutes int `json:"older_than_minutes"`
	Limit            int `json:"limit"`
}
