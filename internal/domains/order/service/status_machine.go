package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/repository"
	productRepo "netshop-backend/internal/domains/product/repository"
)

// Transition mô tả một lần đổi status. Extra được ghi cùng UPDATE
// (tracking number, admin note, payment fields...).
type Transition struct {
	To      model.OrderStatus
	Note    *string
	ActorID *uuid.UUID // nil = system
	Extra   model.OrderUpdate
}

// StatusMachine là nơi duy nhất đổi status của order sau khi tạo.
// Mọi method phải chạy trong transaction đã lock order (FOR UPDATE).
type StatusMachine struct {
	orderRepo   repository.OrderRepository
	productRepo productRepo.Repository
	now         func() time.Time
}

func NewStatusMachine(orderRepo repository.OrderRepository, productRepo productRepo.Repository) *StatusMachine {
	return &StatusMachine{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// Apply validate transition, stamp timestamps, hoàn kho khi huỷ, update order
// và ghi đúng một history row. order được cập nhật in-place khi thành công.
func (m *StatusMachine) Apply(ctx context.Context, tx pgx.Tx, order *model.Order, t Transition) error {
	if err := model.ValidateTransition(order.StatusID, t.To); err != nil {
		return model.NewOrderError(
			model.ErrCodeInvalidStatus,
			fmt.Sprintf("cannot change status from %s to %s", order.StatusID, t.To),
			err,
		)
	}

	upd := t.Extra
	to := t.To
	upd.StatusID = &to

	now := m.now()
	switch t.To {
	case model.StatusShipped:
		if order.ShippedAt == nil {
			upd.ShippedAt = &now
		}
	case model.StatusDelivered:
		if order.DeliveredAt == nil {
			upd.DeliveredAt = &now
		}
	case model.StatusCancelled:
		upd.CancelledAt = &now
		if err := m.restoreStock(ctx, tx, order.ID); err != nil {
			return err
		}
	}

	if err := m.orderRepo.UpdateWithTx(ctx, tx, order.ID, order.Version, &upd); err != nil {
		return err
	}
	upd.ApplyTo(order)

	return m.appendHistory(ctx, tx, order.ID, t.To, t.Note, t.ActorID)
}

// Record ghi update không đổi status (vd: payment failed) kèm một history row
// ở status hiện tại.
func (m *StatusMachine) Record(ctx context.Context, tx pgx.Tx, order *model.Order, upd model.OrderUpdate, note *string, actorID *uuid.UUID) error {
	upd.StatusID = nil

	if !upd.IsEmpty() {
		if err := m.orderRepo.UpdateWithTx(ctx, tx, order.ID, order.Version, &upd); err != nil {
			return err
		}
		upd.ApplyTo(order)
	}

	return m.appendHistory(ctx, tx, order.ID, order.StatusID, note, actorID)
}

// restoreStock cộng lại quantity của từng order item vào product
func (m *StatusMachine) restoreStock(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error {
	items, err := m.orderRepo.GetItemsWithTx(ctx, tx, orderID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := m.productRepo.RestoreStockWithTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock for product %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (m *StatusMachine) appendHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus, note *string, actorID *uuid.UUID) error {
	return m.orderRepo.CreateHistoryWithTx(ctx, tx, &model.OrderHistory{
		OrderID:  orderID,
		StatusID: status,
		Note:     note,
		ActorID:  actorID,
	})
}
