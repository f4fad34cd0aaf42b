package model

import "github.com/google/uuid"

// OrderConfirmationPayload cho task order:send_confirmation
type OrderConfirmationPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
}

// ExpireUnpaidPayload cho task order:expire_unpaid (delayed)
type ExpireUnpaidPayload struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}
