package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	orderModel "netshop-backend/internal/domains/order/model"
	orderRepo "netshop-backend/internal/domains/order/repository"
	orderService "netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/domains/payment/gateway"
	"netshop-backend/internal/domains/payment/gateway/momo"
	"netshop-backend/internal/domains/payment/model"
	"netshop-backend/internal/domains/payment/repository"
	"netshop-backend/internal/shared"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/cache"
	"netshop-backend/pkg/database"
	"netshop-backend/pkg/logger"
)

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================
type paymentService struct {
	db        database.TxStarter
	orderRepo orderRepo.OrderRepository
	logRepo   repository.PaymentLogRepository
	gateway   gateway.MomoGateway
	machine   *orderService.StatusMachine
	enqueuer  shared.TaskEnqueuer
	cache     cache.Cache
	now       func() time.Time
}

type Deps struct {
	DB        database.TxStarter
	OrderRepo orderRepo.OrderRepository
	LogRepo   repository.PaymentLogRepository
	Gateway   gateway.MomoGateway
	Machine   *orderService.StatusMachine
	Enqueuer  shared.TaskEnqueuer
	Cache     cache.Cache
}

func NewPaymentService(d Deps) PaymentService {
	return &paymentService{
		db:        d.DB,
		orderRepo: d.OrderRepo,
		logRepo:   d.LogRepo,
		gateway:   d.Gateway,
		machine:   d.Machine,
		enqueuer:  d.Enqueuer,
		cache:     d.Cache,
		now:       time.Now,
	}
}

// =====================================================
// CREATE PAYMENT
// =====================================================

func (s *paymentService) StartPayment(ctx context.Context, order *orderModel.Order) (string, error) {
	if order.PaymentMethod != orderModel.PaymentMethodMomo {
		return "", model.NewPaymentError(model.ErrCodeInvalidGateway,
			fmt.Sprintf("Order %s is not paid via MoMo", order.OrderNumber), model.ErrInvalidGateway)
	}
	return s.createPayment(ctx, order, momo.NewInitialID(order.OrderNumber, s.now()))
}

// RetryPayment cho phép khách lấy payment URL mới mà không tạo order mới
func (s *paymentService) RetryPayment(ctx context.Context, orderID, userID uuid.UUID) (*model.RetryPaymentResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, orderModel.NewOrderError(orderModel.ErrCodeOrderNotFound, "Order not found", err)
		}
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, orderModel.NewOrderError(orderModel.ErrCodeForbidden, "You do not have access to this order", orderModel.ErrForbidden)
	}
	if !retryable(order) {
		return nil, orderModel.NewOrderError(
			orderModel.ErrCodePaymentNotRetryable,
			fmt.Sprintf("Payment for order %s cannot be retried (status %s, payment %s)",
				order.OrderNumber, order.StatusID, order.PaymentStatus),
			orderModel.ErrPaymentNotRetryable,
		)
	}

	id := momo.NewRetryID(order.OrderNumber, s.now())
	payURL, err := s.createPayment(ctx, order, id)
	if err != nil {
		return nil, err
	}

	return &model.RetryPaymentResponse{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		GatewayOrderID: id.String(),
		Amount:         order.TotalAmount,
		PayURL:         payURL,
	}, nil
}

// retryable: đơn momo, còn Pending, chưa paid
func retryable(o *orderModel.Order) bool {
	return o.PaymentMethod == orderModel.PaymentMethodMomo &&
		o.StatusID == orderModel.StatusPending &&
		o.AwaitingOnlinePayment()
}

// createPayment gọi gateway ngoài transaction rồi lưu gateway order id mới nhất lên order
func (s *paymentService) createPayment(ctx context.Context, order *orderModel.Order, id momo.GatewayOrderID) (string, error) {
	req := momo.CreateRequest{
		OrderID:   id,
		Amount:    order.TotalAmount,
		OrderInfo: fmt.Sprintf("Thanh toán đơn hàng %s", order.OrderNumber),
	}

	resp, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		msg := err.Error()
		s.writeLog(ctx, &model.PaymentLog{
			OrderID:        &order.ID,
			GatewayOrderID: id.String(),
			Source:         model.SourceCreate,
			Amount:         order.TotalAmount,
			Outcome:        model.OutcomeRejected,
			Message:        &msg,
		})
		return "", gatewayError(err)
	}

	gid := id.String()
	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		locked, err := s.orderRepo.GetByIDForUpdateWithTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if locked.IsPaid() {
			return model.NewPaymentError(model.ErrCodeOrderAlreadyPaid,
				fmt.Sprintf("Order %s is already paid", order.OrderNumber), model.ErrOrderAlreadyPaid)
		}
		upd := orderModel.OrderUpdate{GatewayOrderID: &gid}
		if err := s.orderRepo.UpdateWithTx(ctx, tx, locked.ID, locked.Version, &upd); err != nil {
			return err
		}
		upd.ApplyTo(locked)
		order.GatewayOrderID = locked.GatewayOrderID
		order.Version = locked.Version

		return s.logRepo.CreateWithTx(ctx, tx, &model.PaymentLog{
			OrderID:        &order.ID,
			Gateway:        model.GatewayMomo,
			GatewayOrderID: gid,
			Source:         model.SourceCreate,
			Amount:         order.TotalAmount,
			Outcome:        model.OutcomeCreated,
			Payload:        resp,
		})
	})
	if err != nil {
		return "", err
	}

	s.invalidate(ctx, order.ID)

	logger.Info("MoMo payment created", map[string]interface{}{
		"order_id":         order.ID,
		"order_number":     order.OrderNumber,
		"gateway_order_id": gid,
		"attempt":          id.Kind.String(),
		"amount":           order.TotalAmount.String(),
	})

	return resp.PayURL, nil
}

// =====================================================
// QUERY
// =====================================================

func (s *paymentService) QueryPayment(ctx context.Context, orderNumber string, userID uuid.UUID, isAdmin bool) (*model.QueryPaymentResponse, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, orderModel.NewOrderError(orderModel.ErrCodeOrderNotFound, "Order not found", err)
		}
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		return nil, orderModel.NewOrderError(orderModel.ErrCodeForbidden, "You do not have access to this order", orderModel.ErrForbidden)
	}
	if order.PaymentMethod != orderModel.PaymentMethodMomo {
		return nil, model.NewPaymentError(model.ErrCodeInvalidGateway,
			fmt.Sprintf("Order %s is not paid via MoMo", order.OrderNumber), model.ErrInvalidGateway)
	}
	if order.GatewayOrderID == nil {
		return nil, model.NewPaymentNotFoundError(order.OrderNumber)
	}

	id, err := momo.ParseGatewayOrderID(*order.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	upd, err := s.gateway.QueryStatus(ctx, id)
	if err != nil {
		return nil, gatewayError(err)
	}

	out, err := s.applyAuthoritative(ctx, upd, upd.Result)
	if err != nil {
		return nil, err
	}

	o := out.Order
	return &model.QueryPaymentResponse{
		OrderNumber:    o.OrderNumber,
		GatewayOrderID: id.String(),
		ResultCode:     upd.Result.ResultCode,
		Message:        upd.Result.Message,
		Final:          upd.Result.IsFinal(),
		Outcome:        out.Outcome,
		PaymentStatus:  o.PaymentStatus,
		StatusID:       int(o.StatusID),
		TransID:        o.GatewayTransactionID,
		PaymentTime:    o.PaymentTime,
	}, nil
}

func (s *paymentService) ListPaymentLogs(ctx context.Context, orderID uuid.UUID) ([]model.PaymentLog, error) {
	return s.logRepo.ListByOrderID(ctx, orderID)
}

// =====================================================
// HELPERS
// =====================================================

// gatewayError chuyển lỗi Momo thành PaymentError; timeout/unavailable là retryable
func gatewayError(err error) error {
	switch {
	case errors.Is(err, momo.ErrGatewayTimeout):
		return model.NewPaymentError(model.ErrCodeGatewayTimeout, "MoMo did not respond in time, please retry", err)
	case errors.Is(err, momo.ErrGatewayUnavailable):
		return model.NewPaymentError(model.ErrCodeGatewayUnavailable, "MoMo is temporarily unavailable, please retry", err)
	case errors.Is(err, momo.ErrGatewayRejected):
		return model.NewPaymentError(model.ErrCodeGatewayRejected, "MoMo rejected the payment request", err)
	}
	return err
}

// writeLog ghi payment log ngoài transaction; lỗi chỉ được log lại
func (s *paymentService) writeLog(ctx context.Context, l *model.PaymentLog) {
	l.Gateway = model.GatewayMomo
	if err := s.logRepo.Create(ctx, l); err != nil {
		logger.ErrorWithFields("Failed to write payment log", err, map[string]interface{}{
			"gateway_order_id": l.GatewayOrderID,
			"source":           l.Source,
		})
	}
}

func (s *paymentService) invalidate(ctx context.Context, orderID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, orderService.DetailCacheKey(orderID)); err != nil {
		logger.Warn("Failed to invalidate order cache", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
	}
}

// enqueueSuccessEmail: best-effort, lỗi không ảnh hưởng trạng thái thanh toán
func (s *paymentService) enqueueSuccessEmail(ctx context.Context, order *orderModel.Order) {
	if s.enqueuer == nil || order.CustomerEmail == "" {
		return
	}

	payload := model.PaymentSuccessPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.CustomerEmail,
		Amount:      order.TotalAmount.StringFixed(0),
	}
	if order.GatewayTransactionID != nil {
		payload.TransID = *order.GatewayTransactionID
	}

	task, err := utils.NewTask(shared.TypeSendPaymentSuccess, payload)
	if err == nil {
		_, err = s.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(shared.QueueDefault),
			asynq.MaxRetry(3),
		)
	}
	if err != nil {
		logger.ErrorWithFields("Failed to enqueue payment success email", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}
