package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/pkg/database"
	"netshop-backend/pkg/logger"
)

// =====================================================
// CANCEL ORDER (by user)
// =====================================================

func (s *orderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID, req model.CancelOrderRequest) (*model.OrderDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reason := "Cancelled by customer"
	if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
		reason = strings.TrimSpace(*req.Reason)
	}

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetByIDForUpdateWithTx(ctx, tx, orderID)
		if err != nil {
			return notFound(err)
		}
		if !order.IsOwnedBy(userID) {
			return model.NewOrderError(model.ErrCodeForbidden, "You do not have access to this order", model.ErrForbidden)
		}
		if !order.StatusID.CustomerCancellable() {
			return model.NewOrderError(model.ErrCodeOrderCannotCancel, model.ErrOrderCannotCancel.Error(), model.ErrOrderCannotCancel)
		}

		actor := userID
		return s.machine.Apply(ctx, tx, order, Transition{
			To:      model.StatusCancelled,
			Note:    &reason,
			ActorID: &actor,
			Extra:   model.OrderUpdate{CancellationReason: &reason},
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, orderID)
	logger.Info("Order cancelled by customer", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})

	return s.loadDetail(ctx, orderID)
}

// =====================================================
// UPDATE ORDER STATUS (admin)
// =====================================================

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, adminID uuid.UUID, req model.UpdateOrderStatusRequest) (*model.OrderDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	to := model.OrderStatus(req.StatusID)

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetByIDForUpdateWithTx(ctx, tx, orderID)
		if err != nil {
			return notFound(err)
		}

		extra := model.OrderUpdate{
			TrackingNumber: req.TrackingNumber,
			AdminNote:      req.AdminNote,
			PaymentStatus:  req.PaymentStatus,
		}
		if to == model.StatusCancelled {
			reason := "Cancelled by admin"
			if req.Note != nil && *req.Note != "" {
				reason = *req.Note
			}
			extra.CancellationReason = &reason
		}

		actor := adminID
		return s.machine.Apply(ctx, tx, order, Transition{
			To:      to,
			Note:    req.Note,
			ActorID: &actor,
			Extra:   extra,
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, orderID)
	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"admin_id": adminID,
		"status":   to.String(),
	})

	return s.loadDetail(ctx, orderID)
}

// =====================================================
// EXPIRE UNPAID ORDER (system, từ delayed task)
// =====================================================

// ExpireUnpaidOrder no-op nếu đơn đã thanh toán hoặc đã rời trạng thái pending
func (s *orderService) ExpireUnpaidOrder(ctx context.Context, orderID uuid.UUID) error {
	expired := false

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		order, err := s.orderRepo.GetByIDForUpdateWithTx(ctx, tx, orderID)
		if err != nil {
			return notFound(err)
		}
		if !order.AwaitingOnlinePayment() || order.StatusID != model.StatusPending {
			return nil
		}

		note := "Payment timeout"
		failed := model.PaymentStatusFailed
		if err := s.machine.Apply(ctx, tx, order, Transition{
			To:    model.StatusCancelled,
			Note:  &note,
			Extra: model.OrderUpdate{CancellationReason: &note, PaymentStatus: &failed},
		}); err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil {
		return err
	}

	if expired {
		s.invalidate(ctx, orderID)
		logger.Info("Unpaid order expired", map[string]interface{}{"order_id": orderID})
	}
	return nil
}
