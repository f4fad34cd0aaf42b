package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"netshop-backend/internal/domains/order/model"
)

func TestExportOrders(t *testing.T) {
	f := newFixture(t)
	code := "SALE10"
	f.store.SeedOrder(model.Order{
		OrderNumber:    "ORD-20251108-0001",
		UserID:         uuid.New(),
		StatusID:       model.StatusPending,
		PaymentMethod:  model.PaymentMethodCOD,
		ShippingMethod: model.ShippingMethodStandard,
		ShippingAddress: model.AddressSnapshot{
			RecipientName: "Nguyen Van A",
			Phone:         "0901234567",
		},
		TotalAmount:  decimal.NewFromInt(250000),
		DiscountCode: &code,
	})
	f.store.SeedOrder(model.Order{
		OrderNumber: "ORD-20251108-0002",
		UserID:      uuid.New(),
		StatusID:    model.StatusShipped,
	})

	var buf bytes.Buffer
	err := f.svc.ExportOrders(context.Background(), model.ListOrdersRequest{StatusID: int(model.StatusPending)}, &buf)
	require.NoError(t, err)

	xlsx, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xlsx.Close()

	rows, err := xlsx.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order Number", rows[0][0])
	assert.Equal(t, "ORD-20251108-0001", rows[1][0])
	assert.Equal(t, "Nguyen Van A", rows[1][6])
	assert.Equal(t, "250000", rows[1][13])
	assert.Equal(t, "SALE10", rows[1][14])
}

func TestExportOrders_InvalidFilter(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	err := f.svc.ExportOrders(context.Background(), model.ListOrdersRequest{StatusID: 42}, &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
