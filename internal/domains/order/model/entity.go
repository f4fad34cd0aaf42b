package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT METHOD CONSTANTS
// =====================================================
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMomo         = "momo"
	PaymentMethodZaloPay      = "zalopay"
	PaymentMethodVNPay        = "vnpay"
)

// =====================================================
// PAYMENT STATUS CONSTANTS
// =====================================================
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// =====================================================
// SHIPPING METHOD CONSTANTS
// =====================================================
const (
	ShippingMethodStandard = "standard"
	ShippingMethodExpress  = "express"
	ShippingMethodSameDay  = "same_day"
)

// AddressSnapshot là bản copy address lúc tạo đơn, không đổi khi address gốc bị sửa
type AddressSnapshot struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	Street        string `json:"street"`
}

func (a AddressSnapshot) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Ward, a.District, a.Province} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// =====================================================
// ENTITY: Order
// =====================================================
type Order struct {
	ID            uuid.UUID   `json:"id"`
	OrderNumber   string      `json:"order_number"`
	UserID        uuid.UUID   `json:"user_id"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	CustomerPhone *string     `json:"customer_phone,omitempty"`
	StatusID      OrderStatus `json:"status_id"`

	ShippingAddressID uuid.UUID       `json:"shipping_address_id"`
	ShippingAddress   AddressSnapshot `json:"shipping_address"`
	BillingAddressID  uuid.UUID       `json:"billing_address_id"`
	BillingAddress    AddressSnapshot `json:"billing_address"`

	PaymentMethod        string     `json:"payment_method"`
	PaymentStatus        string     `json:"payment_status"`
	GatewayOrderID       *string    `json:"gateway_order_id,omitempty"`
	GatewayTransactionID *string    `json:"gateway_transaction_id,omitempty"`
	PaymentTime          *time.Time `json:"payment_time,omitempty"`

	ShippingMethod string  `json:"shipping_method"`
	TrackingNumber *string `json:"tracking_number,omitempty"`

	// Money fields: total tính một lần lúc tạo và không derive lại
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountCode   *string         `json:"discount_code,omitempty"`
	PromotionID    *uuid.UUID      `json:"promotion_id,omitempty"`

	CustomerNote       *string `json:"customer_note,omitempty"`
	AdminNote          *string `json:"admin_note,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// IsPaid checks if payment is completed
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// AwaitingOnlinePayment: đơn MoMo chưa thanh toán và chưa đóng
func (o *Order) AwaitingOnlinePayment() bool {
	return o.PaymentMethod == PaymentMethodMomo &&
		!o.IsPaid() &&
		o.PaymentStatus != PaymentStatusRefunded &&
		!o.StatusID.IsTerminal()
}

// =====================================================
// ENTITY: OrderItem
// =====================================================

// OrderItem là snapshot product lúc mua; không bao giờ bị sửa sau khi tạo
type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductSKU      string          `json:"product_sku"`
	ProductImageURL *string         `json:"product_image_url,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CreatedAt       time.Time       `json:"created_at"`
}

// =====================================================
// ENTITY: OrderHistory (append-only)
// =====================================================
type OrderHistory struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"order_id"`
	StatusID  OrderStatus `json:"status_id"`
	Note      *string     `json:"note,omitempty"`
	ActorID   *uuid.UUID  `json:"actor_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Discount là kết quả của bước discount trong order writer
type Discount struct {
	Code        string          `json:"code"`
	PromotionID *uuid.UUID      `json:"promotion_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}
