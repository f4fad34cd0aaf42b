package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/logger"
)

// ExpireUnpaidOrderHandler chạy sau ORDER_PAYMENT_TIMEOUT kể từ lúc tạo đơn MoMo
type ExpireUnpaidOrderHandler struct {
	orderService service.OrderService
}

func NewExpireUnpaidOrderHandler(orderService service.OrderService) *ExpireUnpaidOrderHandler {
	return &ExpireUnpaidOrderHandler{orderService: orderService}
}

func (h *ExpireUnpaidOrderHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ExpireUnpaidPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing expire unpaid order task", map[string]interface{}{
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
	})

	if err := h.orderService.ExpireUnpaidOrder(ctx, payload.OrderID); err != nil {
		return fmt.Errorf("expire order %s: %w", payload.OrderNumber, err)
	}
	return nil
}
