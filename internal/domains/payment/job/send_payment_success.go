package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/domains/payment/model"
	emailInfra "netshop-backend/internal/infrastructure/email"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/logger"
)

// SendPaymentSuccessHandler gửi email xác nhận đã nhận tiền
type SendPaymentSuccessHandler struct {
	emailService emailInfra.EmailService
}

func NewSendPaymentSuccessHandler(emailService emailInfra.EmailService) *SendPaymentSuccessHandler {
	return &SendPaymentSuccessHandler{emailService: emailService}
}

func (h *SendPaymentSuccessHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.PaymentSuccessPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing payment success email task", map[string]interface{}{
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
		"email":        payload.Email,
	})

	body := fmt.Sprintf(
		"Chúng tôi đã nhận được thanh toán %s VND qua MoMo cho đơn hàng #%s.\n"+
			"Mã giao dịch: %s\n\n"+
			"Đơn hàng của bạn đã được xác nhận và sẽ sớm được xử lý.\n",
		payload.Amount, payload.OrderNumber, payload.TransID,
	)

	err := h.emailService.SendEmail(ctx, emailInfra.EmailRequest{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Thanh toán thành công cho đơn hàng #%s", payload.OrderNumber),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("send payment success email: %w", err)
	}
	return nil
}
