package service

import (
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/promotion/model"
)

// DiscountCalculator xử lý logic tính toán discount
type DiscountCalculator struct{}

func NewDiscountCalculator() *DiscountCalculator {
	return &DiscountCalculator{}
}

// Calculate tính số tiền giảm giá, làm tròn đến VND.
//   - percentage: subtotal × value / 100, cap bởi max_discount_amount
//   - fixed: value, không vượt quá subtotal
func (c *DiscountCalculator) Calculate(promo *model.Promotion, subtotal decimal.Decimal) decimal.Decimal {
	return c.Breakdown(promo, subtotal).FinalDiscount
}

// Breakdown tính chi tiết từng bước (dùng cho logging)
func (c *DiscountCalculator) Breakdown(promo *model.Promotion, subtotal decimal.Decimal) DiscountBreakdown {
	b := DiscountBreakdown{
		Subtotal:     subtotal,
		DiscountType: string(promo.DiscountType),
	}

	switch promo.DiscountType {
	case model.DiscountTypePercentage:
		// VD: 400,000 × 20 / 100 = 80,000
		b.RawDiscount = subtotal.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100))
		b.FinalDiscount = b.RawDiscount
		if promo.MaxDiscountAmount != nil && b.RawDiscount.GreaterThan(*promo.MaxDiscountAmount) {
			b.FinalDiscount = *promo.MaxDiscountAmount
			b.Capped = true
			b.CapReason = "max_discount_amount"
		}

	case model.DiscountTypeFixed:
		// Đơn 50k, discount 100k → chỉ giảm 50k
		b.RawDiscount = promo.DiscountValue
		b.FinalDiscount = promo.DiscountValue
		if promo.DiscountValue.GreaterThan(subtotal) {
			b.FinalDiscount = subtotal
			b.Capped = true
			b.CapReason = "exceeds_subtotal"
		}

	default:
		b.FinalDiscount = decimal.Zero
	}

	// ROUND_HALF_UP
	b.FinalDiscount = b.FinalDiscount.Round(0)
	return b
}

type DiscountBreakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountType  string          `json:"discount_type"`
	RawDiscount   decimal.Decimal `json:"raw_discount"`   // Trước khi cap
	FinalDiscount decimal.Decimal `json:"final_discount"` // Sau khi cap
	Capped        bool            `json:"capped"`
	CapReason     string          `json:"cap_reason,omitempty"`
}
