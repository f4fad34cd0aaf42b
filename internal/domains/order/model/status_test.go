package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusReturned,
}

func TestValidateTransition_Grid(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				err := ValidateTransition(from, to)

				switch {
				case from == StatusCancelled || from == StatusReturned:
					assert.ErrorIs(t, err, ErrStatusTerminal)
				case from == to:
					assert.NoError(t, err)
				case from == StatusDelivered:
					if to == StatusReturned {
						assert.NoError(t, err)
					} else {
						assert.Error(t, err)
					}
				case to == StatusReturned:
					assert.Error(t, err, "returned only follows delivered")
				case to == StatusCancelled:
					assert.NoError(t, err)
				case to < from:
					assert.ErrorIs(t, err, ErrInvalidTransition)
				default:
					assert.NoError(t, err)
				}
			})
		}
	}
}

func TestValidateTransition_BackwardsRejectedUnlessCancel(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if to >= from || to == StatusCancelled {
				continue
			}
			assert.Error(t, ValidateTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition_SameStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered} {
		assert.NoError(t, ValidateTransition(s, s), s.String())
	}
	assert.ErrorIs(t, ValidateTransition(StatusCancelled, StatusCancelled), ErrStatusTerminal)
	assert.ErrorIs(t, ValidateTransition(StatusReturned, StatusReturned), ErrStatusTerminal)
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	assert.ErrorIs(t, ValidateTransition(StatusPending, OrderStatus(0)), ErrInvalidStatus)
	assert.ErrorIs(t, ValidateTransition(StatusPending, OrderStatus(8)), ErrInvalidStatus)
}

func TestCustomerCancellable(t *testing.T) {
	assert.True(t, StatusPending.CustomerCancellable())
	assert.True(t, StatusConfirmed.CustomerCancellable())
	for _, s := range []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned} {
		assert.False(t, s.CustomerCancellable(), s.String())
	}
}

func TestCreateOrderRequest_Validate(t *testing.T) {
	valid := CreateOrderRequest{
		ShippingAddressID: [16]byte{1},
		PaymentMethod:     PaymentMethodCOD,
		ShippingMethod:    ShippingMethodStandard,
	}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, valid.ShippingAddressID, valid.BillingOrShipping())

	bad := valid
	bad.PaymentMethod = "paypal"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ShippingMethod = "overnight"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ShippingAddressID = [16]byte{}
	assert.Error(t, bad.Validate())
}
