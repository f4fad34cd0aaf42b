package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart business constraints
const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

var (
	ErrInvalidCart      = errors.New("either user_id or session_id must be set, but not both")
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 99")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrQuantityTooHigh  = errors.New("cart quantity cannot exceed 99 for one product")
	ErrProductNotActive = errors.New("product is not available")
)

// Cart thuộc về đúng một user hoặc một anonymous session
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	SessionID *string    `json:"session_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate validates cart ownership
func (c *Cart) Validate() error {
	if (c.UserID == nil) == (c.SessionID == nil) {
		return ErrInvalidCart
	}
	return nil
}

// IsOwnedBy reports whether the cart belongs to userID
func (c *Cart) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID != nil && *c.UserID == userID
}

// CartItem: tối đa một row cho mỗi (cart, product)
type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	CartID    uuid.UUID       `json:"cart_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // snapshot price at time of adding
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func ValidateQuantity(quantity int) error {
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// Subtotal tính theo snapshot price
func (ci *CartItem) Subtotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
