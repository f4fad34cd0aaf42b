package model

import "time"

// OrderUpdate gom các field có thể thay đổi sau khi tạo đơn.
// nil = giữ nguyên. Money fields và item snapshots không nằm ở đây.
type OrderUpdate struct {
	StatusID             *OrderStatus
	PaymentStatus        *string
	GatewayOrderID       *string
	GatewayTransactionID *string
	PaymentTime          *time.Time
	TrackingNumber       *string
	AdminNote            *string
	CancellationReason   *string
	ShippedAt            *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

func (u *OrderUpdate) IsEmpty() bool {
	return u.StatusID == nil && u.PaymentStatus == nil && u.GatewayOrderID == nil &&
		u.GatewayTransactionID == nil && u.PaymentTime == nil && u.TrackingNumber == nil &&
		u.AdminNote == nil && u.CancellationReason == nil && u.ShippedAt == nil &&
		u.DeliveredAt == nil && u.CancelledAt == nil
}

// ApplyTo đồng bộ order trong memory sau khi update thành công
func (u *OrderUpdate) ApplyTo(o *Order) {
	if u.StatusID != nil {
		o.StatusID = *u.StatusID
	}
	if u.PaymentStatus != nil {
		o.PaymentStatus = *u.PaymentStatus
	}
	if u.GatewayOrderID != nil {
		o.GatewayOrderID = u.GatewayOrderID
	}
	if u.GatewayTransactionID != nil {
		o.GatewayTransactionID = u.GatewayTransactionID
	}
	if u.PaymentTime != nil {
		o.PaymentTime = u.PaymentTime
	}
	if u.TrackingNumber != nil {
		o.TrackingNumber = u.TrackingNumber
	}
	if u.AdminNote != nil {
		o.AdminNote = u.AdminNote
	}
	if u.CancellationReason != nil {
		o.CancellationReason = u.CancellationReason
	}
	if u.ShippedAt != nil {
		o.ShippedAt = u.ShippedAt
	}
	if u.DeliveredAt != nil {
		o.DeliveredAt = u.DeliveredAt
	}
	if u.CancelledAt != nil {
		o.CancelledAt = u.CancelledAt
	}
	o.Version++
}
