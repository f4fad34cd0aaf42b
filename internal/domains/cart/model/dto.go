package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (r AddToCartRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(notNilUUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(MinItemQuantity), validation.Max(MaxItemQuantity)),
	)
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateCartItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(MinItemQuantity), validation.Max(MaxItemQuantity)),
	)
}

func notNilUUID(value interface{}) error {
	if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
		return validation.NewError("validation_nil_uuid", "must be a valid UUID")
	}
	return nil
}

// CartItemResponse represents cart item with current product details
type CartItemResponse struct {
	CartItem
	ProductName    string          `json:"product_name"`
	ProductSlug    string          `json:"product_slug"`
	ImageURL       *string         `json:"image_url,omitempty"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	IsAvailable    bool            `json:"is_available"`
	AvailableStock int             `json:"available_stock"`
}

// CartResponse represents the full cart response with items
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	Items      []CartItemResponse `json:"items"`
	ItemsCount int                `json:"items_count"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
}
