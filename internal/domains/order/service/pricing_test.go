package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netshop-backend/internal/config"
	"netshop-backend/internal/domains/order/model"
)

func testOrderConfig() config.OrderConfig {
	return config.OrderConfig{
		FreeShippingThreshold: decimal.NewFromInt(500000),
		StandardShippingFee:   decimal.NewFromInt(30000),
		ExpressShippingFee:    decimal.NewFromInt(50000),
		SameDayShippingFee:    decimal.NewFromInt(80000),
		TaxRate:               decimal.NewFromFloat(0.10),
		UTCOffsetHours:        7,
		PaymentTimeout:        30 * time.Minute,
		CacheTTL:              time.Minute,
	}
}

func TestPricing_ShippingFeeThreshold(t *testing.T) {
	p := NewPricing(testOrderConfig())

	fees := map[string]int64{
		model.ShippingMethodStandard: 30000,
		model.ShippingMethodExpress:  50000,
		model.ShippingMethodSameDay:  80000,
	}

	for method, fee := range fees {
		t.Run(method, func(t *testing.T) {
			for _, subtotal := range []int64{0, 1, 200000, 499999} {
				got, err := p.ShippingFee(decimal.NewFromInt(subtotal), method)
				require.NoError(t, err)
				assert.True(t, got.Equal(decimal.NewFromInt(fee)), "subtotal %d", subtotal)
			}
			for _, subtotal := range []int64{500000, 500001, 10000000} {
				got, err := p.ShippingFee(decimal.NewFromInt(subtotal), method)
				require.NoError(t, err)
				assert.True(t, got.IsZero(), "subtotal %d", subtotal)
			}
		})
	}
}

func TestPricing_UnknownMethod(t *testing.T) {
	_, err := NewPricing(testOrderConfig()).ShippingFee(decimal.NewFromInt(1000), "drone")
	assert.Error(t, err)
}

func TestPricing_TotalInvariant(t *testing.T) {
	p := NewPricing(testOrderConfig())

	cases := []struct {
		subtotal string
		method   string
		discount string
	}{
		{"200000", model.ShippingMethodStandard, "0"},
		{"123455", model.ShippingMethodExpress, "0"},
		{"123465", model.ShippingMethodSameDay, "10000"},
		{"500000", model.ShippingMethodStandard, "50000"},
		{"999999", model.ShippingMethodExpress, "0"},
		{"5", model.ShippingMethodStandard, "0"},
	}

	for _, tc := range cases {
		subtotal := decimal.RequireFromString(tc.subtotal)
		discount := decimal.RequireFromString(tc.discount)

		b, err := p.Compute(subtotal, tc.method, discount)
		require.NoError(t, err)

		assert.True(t, b.TaxAmount.Equal(subtotal.Mul(decimal.NewFromFloat(0.10)).Round(0)), tc.subtotal)
		assert.True(t, b.TaxAmount.Equal(b.TaxAmount.Round(0)))
		assert.True(t, b.TotalAmount.Equal(b.Subtotal.Add(b.ShippingFee).Add(b.TaxAmount).Sub(b.DiscountAmount)), tc.subtotal)
	}
}

func TestPricing_EndToEndNumbers(t *testing.T) {
	b, err := NewPricing(testOrderConfig()).Compute(decimal.NewFromInt(200000), model.ShippingMethodStandard, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "30000", b.ShippingFee.String())
	assert.Equal(t, "20000", b.TaxAmount.String())
	assert.Equal(t, "250000", b.TotalAmount.String())
}
