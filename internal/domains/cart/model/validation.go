package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item error codes trả về cho client để render lại cart
const (
	ItemErrProductNotFound   = "PRODUCT_NOT_FOUND"
	ItemErrProductInactive   = "PRODUCT_INACTIVE"
	ItemErrInsufficientStock = "INSUFFICIENT_STOCK"
	ItemErrPriceChanged      = "PRICE_CHANGED"
)

type ItemError struct {
	ItemID         uuid.UUID        `json:"item_id"`
	ProductID      uuid.UUID        `json:"product_id"`
	ProductName    string           `json:"product_name,omitempty"`
	Code           string           `json:"code"`
	Message        string           `json:"message"`
	Requested      int              `json:"requested,omitempty"`
	AvailableStock *int             `json:"available_stock,omitempty"`
	SnapshotPrice  *decimal.Decimal `json:"snapshot_price,omitempty"`
	CurrentPrice   *decimal.Decimal `json:"current_price,omitempty"`
}

// ValidatedLine là một cart item đã qua kiểm tra, kèm dữ liệu product hiện tại
type ValidatedLine struct {
	Item        CartItem
	ProductName string
	ProductSKU  string
	ImageURL    *string
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// ValidationResult của Cart Validator; không có side effect
type ValidationResult struct {
	Valid      bool            `json:"valid"`
	Errors     []string        `json:"errors"`
	ItemErrors []ItemError     `json:"item_errors,omitempty"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Cart       *Cart           `json:"cart,omitempty"`
	Items      []CartItem      `json:"items"`

	Lines []ValidatedLine `json:"-"`
}

// AddItemError đánh dấu result invalid và ghi lại lỗi của item
func (r *ValidationResult) AddItemError(e ItemError) {
	r.Valid = false
	r.Errors = append(r.Errors, e.Message)
	r.ItemErrors = append(r.ItemErrors, e)
}
