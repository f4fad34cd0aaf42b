package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var (
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrPromotionInactive   = errors.New("promotion is not active")
	ErrPromotionNotStarted = errors.New("promotion has not started yet")
	ErrPromotionExpired    = errors.New("promotion has expired")
	ErrPromotionExhausted  = errors.New("promotion usage limit reached")
	ErrUserLimitExceeded   = errors.New("user has exceeded maximum uses for this promotion")
	ErrOrderAmountTooLow   = errors.New("order amount is below minimum required")
	ErrInvalidDiscountType = errors.New("invalid discount type")
)

// Promotion là một discount code
type Promotion struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`

	DiscountType      DiscountType     `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
	MinOrderAmount    decimal.Decimal  `json:"min_order_amount"`

	// Usage limits
	MaxUses        *int `json:"max_uses,omitempty"`
	MaxUsesPerUser int  `json:"max_uses_per_user"`
	CurrentUses    int  `json:"current_uses"`

	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckAvailable kiểm tra trạng thái, thời hạn và tổng lượt dùng tại thời điểm now
func (p *Promotion) CheckAvailable(now time.Time) error {
	switch {
	case !p.IsActive:
		return ErrPromotionInactive
	case now.Before(p.StartsAt):
		return ErrPromotionNotStarted
	case !now.Before(p.ExpiresAt):
		return ErrPromotionExpired
	case p.MaxUses != nil && p.CurrentUses >= *p.MaxUses:
		return ErrPromotionExhausted
	}
	return nil
}

// CheckUserUsage: MaxUsesPerUser <= 0 nghĩa là không giới hạn
func (p *Promotion) CheckUserUsage(used int) error {
	if p.MaxUsesPerUser > 0 && used >= p.MaxUsesPerUser {
		return ErrUserLimitExceeded
	}
	return nil
}

func (p *Promotion) CheckMinOrder(subtotal decimal.Decimal) error {
	if subtotal.LessThan(p.MinOrderAmount) {
		return ErrOrderAmountTooLow
	}
	return nil
}

// NormalizeCode chuyển code về uppercase
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PromotionUsage ghi lại lịch sử sử dụng promotion
type PromotionUsage struct {
	ID             uuid.UUID       `json:"id"`
	PromotionID    uuid.UUID       `json:"promotion_id"`
	UserID         uuid.UUID       `json:"user_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"` // Số tiền đã giảm
	UsedAt         time.Time       `json:"used_at"`
}
