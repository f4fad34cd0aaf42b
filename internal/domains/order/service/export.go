package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"netshop-backend/internal/domains/order/model"
)

const (
	exportSheetName = "Orders"
	exportPageSize  = 100
	exportMaxRows   = 5000
)

// ExportOrders ghi danh sách đơn (theo filter status) ra file xlsx
func (s *orderService) ExportOrders(ctx context.Context, req model.ListOrdersRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	req.Limit = exportPageSize
	orders := make([]model.Order, 0, exportPageSize)
	for page := 1; len(orders) < exportMaxRows; page++ {
		req.Page = page
		batch, total, err := s.orderRepo.ListAll(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
		orders = append(orders, batch...)
		if len(batch) < exportPageSize || len(orders) >= total {
			break
		}
	}

	f, err := buildOrdersExcelFile(orders)
	if err != nil {
		return fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	return f.Write(w)
}

func buildOrdersExcelFile(orders []model.Order) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	headers := []string{
		"Order Number",
		"Created At",
		"Status",
		"Payment Method",
		"Payment Status",
		"Shipping Method",
		"Recipient",
		"Phone",
		"Shipping Address",
		"Subtotal",
		"Shipping Fee",
		"Tax",
		"Discount",
		"Total",
		"Discount Code",
		"Tracking Number",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(exportSheetName, "A1", last, headerStyle)
	}

	for i, o := range orders {
		rowNum := i + 2
		cell := func(col int) string {
			c, _ := excelize.CoordinatesToCellName(col, rowNum)
			return c
		}

		f.SetCellValue(exportSheetName, cell(1), o.OrderNumber)
		f.SetCellValue(exportSheetName, cell(2), o.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(exportSheetName, cell(3), o.StatusID.String())
		f.SetCellValue(exportSheetName, cell(4), o.PaymentMethod)
		f.SetCellValue(exportSheetName, cell(5), o.PaymentStatus)
		f.SetCellValue(exportSheetName, cell(6), o.ShippingMethod)
		f.SetCellValue(exportSheetName, cell(7), o.ShippingAddress.RecipientName)
		f.SetCellValue(exportSheetName, cell(8), o.ShippingAddress.Phone)
		f.SetCellValue(exportSheetName, cell(9), o.ShippingAddress.FullAddress())

		// Money (decimal -> float64)
		f.SetCellValue(exportSheetName, cell(10), o.Subtotal.InexactFloat64())
		f.SetCellValue(exportSheetName, cell(11), o.ShippingFee.InexactFloat64())
		f.SetCellValue(exportSheetName, cell(12), o.TaxAmount.InexactFloat64())
		f.SetCellValue(exportSheetName, cell(13), o.DiscountAmount.InexactFloat64())
		f.SetCellValue(exportSheetName, cell(14), o.TotalAmount.InexactFloat64())

		if o.DiscountCode != nil {
			f.SetCellValue(exportSheetName, cell(15), *o.DiscountCode)
		}
		if o.TrackingNumber != nil {
			f.SetCellValue(exportSheetName, cell(16), *o.TrackingNumber)
		}
	}

	return f, nil
}
