package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"netshop-backend/internal/config"
	"netshop-backend/internal/domains/order/model"
)

// PriceBreakdown là 5 money fields của order
type PriceBreakdown struct {
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Pricing tính phí ship, thuế và tổng tiền. Không có I/O.
type Pricing struct {
	freeShippingThreshold decimal.Decimal
	fees                  map[string]decimal.Decimal
	taxRate               decimal.Decimal
}

func NewPricing(cfg config.OrderConfig) *Pricing {
	return &Pricing{
		freeShippingThreshold: cfg.FreeShippingThreshold,
		fees: map[string]decimal.Decimal{
			model.ShippingMethodStandard: cfg.StandardShippingFee,
			model.ShippingMethodExpress:  cfg.ExpressShippingFee,
			model.ShippingMethodSameDay:  cfg.SameDayShippingFee,
		},
		taxRate: cfg.TaxRate,
	}
}

// ShippingFee: miễn phí khi subtotal >= ngưỡng, ngược lại phí cố định theo method
func (p *Pricing) ShippingFee(subtotal decimal.Decimal, method string) (decimal.Decimal, error) {
	fee, ok := p.fees[method]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown shipping method %q", method)
	}
	if subtotal.GreaterThanOrEqual(p.freeShippingThreshold) {
		return decimal.Zero, nil
	}
	return fee, nil
}

// Tax = round(subtotal * rate), tính trên subtotal trước discount
func (p *Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.taxRate).Round(0)
}

// Compute: total = subtotal + shipping_fee + tax - discount
func (p *Pricing) Compute(subtotal decimal.Decimal, method string, discount decimal.Decimal) (PriceBreakdown, error) {
	fee, err := p.ShippingFee(subtotal, method)
	if err != nil {
		return PriceBreakdown{}, err
	}

	tax := p.Tax(subtotal)

	return PriceBreakdown{
		Subtotal:       subtotal,
		ShippingFee:    fee,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    subtotal.Add(fee).Add(tax).Sub(discount),
	}, nil
}
