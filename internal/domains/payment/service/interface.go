package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	orderModel "netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/payment/gateway/momo"
	"netshop-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT SERVICE INTERFACE
// =====================================================
type PaymentService interface {
	// StartPayment tạo payment URL lần đầu cho order momo (gọi sau checkout)
	StartPayment(ctx context.Context, order *orderModel.Order) (string, error)

	// RetryPayment tạo payment URL mới (gateway id "_R{ts}") cho order chưa thanh toán
	RetryPayment(ctx context.Context, orderID, userID uuid.UUID) (*model.RetryPaymentResponse, error)

	// HandleIPN verify chữ ký và áp dụng kết quả (authoritative)
	HandleIPN(ctx context.Context, ipn momo.IPN) error

	// HandleReturn áp dụng kết quả từ redirect (best-effort, không verify)
	HandleReturn(ctx context.Context, params momo.ReturnParams) (*model.ReturnResult, error)

	// QueryPayment hỏi Momo và áp dụng kết quả nếu giao dịch đã kết thúc
	QueryPayment(ctx context.Context, orderNumber string, userID uuid.UUID, isAdmin bool) (*model.QueryPaymentResponse, error)

	// ReconcilePending query các order momo chờ thanh toán lâu hơn olderThan
	ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (int, error)

	ListPaymentLogs(ctx context.Context, orderID uuid.UUID) ([]model.PaymentLog, error)
}
