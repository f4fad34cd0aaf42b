package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/repository"
	emailInfra "netshop-backend/internal/infrastructure/email"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/logger"
)

type SendOrderConfirmationHandler struct {
	orderRepo    repository.OrderRepository
	emailService emailInfra.EmailService
}

func NewSendOrderConfirmationHandler(orderRepo repository.OrderRepository, emailService emailInfra.EmailService) *SendOrderConfirmationHandler {
	return &SendOrderConfirmationHandler{
		orderRepo:    orderRepo,
		emailService: emailService,
	}
}

func (h *SendOrderConfirmationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.OrderConfirmationPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing send order confirmation task", map[string]interface{}{
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
		"email":        payload.Email,
	})

	order, err := h.orderRepo.GetByID(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	items, err := h.orderRepo.GetItems(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}

	emailReq := emailInfra.EmailRequest{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Đơn hàng #%s đã được đặt thành công", order.OrderNumber),
		Body:    buildConfirmationBody(order, items),
	}

	if err := h.emailService.SendEmail(ctx, emailReq); err != nil {
		logger.Info("Failed to send order confirmation email", map[string]interface{}{
			"order_id": payload.OrderID,
			"email":    payload.Email,
			"error":    err.Error(),
		})
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("Sent order confirmation email successfully", map[string]interface{}{
		"order_id": payload.OrderID,
		"email":    payload.Email,
	})

	return nil
}

var paymentMethodText = map[string]string{
	model.PaymentMethodCOD:          "Thanh toán khi nhận hàng (COD)",
	model.PaymentMethodBankTransfer: "Chuyển khoản ngân hàng",
	model.PaymentMethodMomo:         "Ví MoMo",
	model.PaymentMethodZaloPay:      "ZaloPay",
	model.PaymentMethodVNPay:        "VNPay",
}

func buildConfirmationBody(order *model.Order, items []model.OrderItem) string {
	method := paymentMethodText[order.PaymentMethod]
	if method == "" {
		method = order.PaymentMethod
	}

	var lines strings.Builder
	for _, it := range items {
		fmt.Fprintf(&lines, "- %s x%d: %s đ\n", it.ProductName, it.Quantity, it.Subtotal.StringFixed(0))
	}

	return fmt.Sprintf(`Chào bạn,

Cảm ơn bạn đã đặt hàng tại NetShop!

Mã đơn hàng: %s
Sản phẩm:
%s
Tạm tính: %s đ
Phí vận chuyển: %s đ
Thuế: %s đ
Giảm giá: %s đ
Tổng cộng: %s đ

Phương thức thanh toán: %s
Giao đến: %s

Trân trọng,
NetShop`,
		order.OrderNumber,
		lines.String(),
		order.Subtotal.StringFixed(0),
		order.ShippingFee.StringFixed(0),
		order.TaxAmount.StringFixed(0),
		order.DiscountAmount.StringFixed(0),
		order.TotalAmount.StringFixed(0),
		method,
		order.ShippingAddress.FullAddress(),
	)
}
