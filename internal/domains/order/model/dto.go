package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var phoneRegex = regexp.MustCompile(`^(\+84|0)[35789][0-9]{8}$`)

// =====================================================
// CREATE ORDER REQUEST
// =====================================================
type CreateOrderRequest struct {
	ShippingAddressID uuid.UUID  `json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID `json:"billing_address_id,omitempty"` // nil = same as shipping
	PaymentMethod     string     `json:"payment_method"`
	ShippingMethod    string     `json:"shipping_method"`
	CustomerPhone     *string    `json:"customer_phone,omitempty"`
	DiscountCode      *string    `json:"discount_code,omitempty"`
	CustomerNote      *string    `json:"customer_note,omitempty"`

	// Internal use (set by handler from JWT claims)
	CustomerEmail string `json:"-"`
}

// Validate validates CreateOrderRequest
func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ShippingAddressID, validation.By(requireUUID)),
		validation.Field(&req.PaymentMethod, validation.Required, validation.In(
			PaymentMethodCOD,
			PaymentMethodBankTransfer,
			PaymentMethodMomo,
			PaymentMethodZaloPay,
			PaymentMethodVNPay,
		)),
		validation.Field(&req.ShippingMethod, validation.Required, validation.In(
			ShippingMethodStandard,
			ShippingMethodExpress,
			ShippingMethodSameDay,
		)),
		validation.Field(&req.CustomerPhone, validation.NilOrNotEmpty, validation.Match(phoneRegex)),
		validation.Field(&req.DiscountCode, validation.NilOrNotEmpty, validation.Length(3, 50)),
		validation.Field(&req.CustomerNote, validation.Length(0, 500)),
	)
}

// BillingOrShipping trả billing address id, mặc định là shipping address
func (req *CreateOrderRequest) BillingOrShipping() uuid.UUID {
	if req.BillingAddressID != nil && *req.BillingAddressID != uuid.Nil {
		return *req.BillingAddressID
	}
	return req.ShippingAddressID
}

func requireUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

// =====================================================
// CREATE ORDER RESPONSE
// =====================================================
type CreateOrderResponse struct {
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	StatusID       OrderStatus     `json:"status_id"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PayURL         *string         `json:"pay_url,omitempty"` // MoMo only
	CreatedAt      time.Time       `json:"created_at"`
}

// =====================================================
// ORDER DETAIL RESPONSE
// =====================================================
type OrderDetail struct {
	Order
	Status string      `json:"status"`
	Items  []OrderItem `json:"items"`
}

func NewOrderDetail(o *Order, items []OrderItem) *OrderDetail {
	if items == nil {
		items = []OrderItem{}
	}
	return &OrderDetail{Order: *o, Status: o.StatusID.String(), Items: items}
}

type OrderSummary struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	StatusID       OrderStatus     `json:"status_id"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	ShippingMethod string          `json:"shipping_method"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ItemsCount     int             `json:"items_count"`
	CreatedAt      time.Time       `json:"created_at"`
}

// =====================================================
// LIST ORDERS REQUEST
// =====================================================
type ListOrdersRequest struct {
	StatusID int `form:"status_id"`
	Page     int `form:"page"`
	Limit    int `form:"limit"`
}

// Normalize áp default cho page/limit
func (req *ListOrdersRequest) Normalize() {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
}

func (req ListOrdersRequest) Validate() error {
	if req.StatusID == 0 {
		return nil
	}
	if !OrderStatus(req.StatusID).IsValid() {
		return validation.Errors{"status_id": ErrInvalidStatus}
	}
	return nil
}

func (req ListOrdersRequest) Offset() int {
	return (req.Page - 1) * req.Limit
}

// =====================================================
// CANCEL ORDER REQUEST
// =====================================================
type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (req CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Reason, validation.Length(0, 500)),
	)
}

// =====================================================
// UPDATE ORDER STATUS REQUEST (Admin)
// =====================================================
type UpdateOrderStatusRequest struct {
	StatusID       int     `json:"status_id"`
	Note           *string `json:"note,omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	PaymentStatus  *string `json:"payment_status,omitempty"`
	AdminNote      *string `json:"admin_note,omitempty"`
}

// Validate validates UpdateOrderStatusRequest
func (req UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.StatusID, validation.Required, validation.Min(int(StatusPending)), validation.Max(int(StatusReturned))),
		validation.Field(&req.Note, validation.Length(0, 500)),
		validation.Field(&req.TrackingNumber, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.PaymentStatus, validation.NilOrNotEmpty, validation.In(
			PaymentStatusPending,
			PaymentStatusPaid,
			PaymentStatusFailed,
			PaymentStatusRefunded,
		)),
		validation.Field(&req.AdminNote, validation.Length(0, 1000)),
	)
}

// =====================================================
// LIST ORDERS RESPONSE
// =====================================================
type ListOrdersResponse struct {
	Orders []OrderSummary `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

func NewOrderSummary(o *Order, itemsCount int) OrderSummary {
	return OrderSummary{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		StatusID:       o.StatusID,
		Status:         o.StatusID.String(),
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		ShippingMethod: o.ShippingMethod,
		TotalAmount:    o.TotalAmount,
		ItemsCount:     itemsCount,
		CreatedAt:      o.CreatedAt,
	}
}
