package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/domains/payment/model"
	"netshop-backend/internal/domains/payment/service"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/logger"
)

const (
	defaultReconcileAge   = 15 * time.Minute
	defaultReconcileLimit = 100
)

// ReconcilePendingHandler chạy định kỳ (scheduler), query Momo cho đơn chờ thanh toán lâu
type ReconcilePendingHandler struct {
	paymentService service.PaymentService
}

func NewReconcilePendingHandler(paymentService service.PaymentService) *ReconcilePendingHandler {
	return &ReconcilePendingHandler{paymentService: paymentService}
}

func (h *ReconcilePendingHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ReconcilePendingPayload
	if len(t.Payload()) > 0 {
		if err := utils.UnmarshalTask(t, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	age := defaultReconcileAge
	if payload.OlderThanMinutes > 0 {
		age = time.Duration(payload.OlderThanMinutes) * time.Minute
	}
	limit := defaultReconcileLimit
	if payload.Limit > 0 {
		limit = payload.Limit
	}

	applied, err := h.paymentService.ReconcilePending(ctx, age, limit)
	if err != nil {
		return fmt.Errorf("reconcile pending momo payments: %w", err)
	}

	logger.Info("Reconcile pending MoMo task completed", map[string]interface{}{
		"applied": applied,
	})
	return nil
}
