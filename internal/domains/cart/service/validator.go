package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/cart/model"
	productModel "netshop-backend/internal/domains/product/model"
)

// CheckItems kiểm tra từng cart item với product row hiện tại:
// product còn tồn tại, đang active, đủ stock, và giá không đổi so với snapshot.
// Hàm thuần, không I/O; order writer gọi lại bên trong transaction với dữ liệu vừa đọc.
func CheckItems(cart *model.Cart, items []model.CartItem, products map[uuid.UUID]*productModel.Product) *model.ValidationResult {
	result := &model.ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Subtotal: decimal.Zero,
		Cart:     cart,
		Items:    items,
	}

	if len(items) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, model.ErrCartEmpty.Error())
		return result
	}

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			result.AddItemError(model.ItemError{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Code:      model.ItemErrProductNotFound,
				Message:   fmt.Sprintf("Product %s no longer exists", item.ProductID),
			})
			continue
		}

		lineOK := true

		if !p.IsActive {
			lineOK = false
			result.AddItemError(model.ItemError{
				ItemID:      item.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Code:        model.ItemErrProductInactive,
				Message:     fmt.Sprintf("%s is no longer available", p.Name),
			})
		}

		if p.StockQuantity < item.Quantity {
			lineOK = false
			available := p.StockQuantity
			result.AddItemError(model.ItemError{
				ItemID:         item.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				Code:           model.ItemErrInsufficientStock,
				Message:        fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", p.Name, item.Quantity, available),
				Requested:      item.Quantity,
				AvailableStock: &available,
			})
		}

		current := p.EffectivePrice()
		if !current.Equal(item.Price) {
			lineOK = false
			snapshot := item.Price
			result.AddItemError(model.ItemError{
				ItemID:        item.ID,
				ProductID:     p.ID,
				ProductName:   p.Name,
				Code:          model.ItemErrPriceChanged,
				Message:       fmt.Sprintf("Price for %s changed: %s -> %s", p.Name, snapshot.String(), current.String()),
				SnapshotPrice: &snapshot,
				CurrentPrice:  &current,
			})
		}

		if !lineOK {
			continue
		}

		lineTotal := current.Mul(decimal.NewFromInt(int64(item.Quantity)))
		result.Lines = append(result.Lines, model.ValidatedLine{
			Item:        item,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			ImageURL:    p.ImageURL,
			UnitPrice:   current,
			LineTotal:   lineTotal,
		})
		result.Subtotal = result.Subtotal.Add(lineTotal)
	}

	return result
}

// ProductIDs trả product ids của các cart items (dùng cho batch lookup)
func ProductIDs(items []model.CartItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
