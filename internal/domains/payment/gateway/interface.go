package gateway

import (
	"context"

	"netshop-backend/internal/domains/payment/gateway/momo"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// MomoGateway là phần của Momo API mà payment service dùng
type MomoGateway interface {
	// CreatePayment ký và gửi create request, trả payUrl
	CreatePayment(ctx context.Context, req momo.CreateRequest) (*momo.CreateResponse, error)

	// QueryStatus hỏi trạng thái giao dịch theo gateway order id
	QueryStatus(ctx context.Context, id momo.GatewayOrderID) (*momo.AuthoritativePaymentUpdate, error)

	// VerifyIPN verify chữ ký IPN
	VerifyIPN(ipn momo.IPN) (*momo.AuthoritativePaymentUpdate, error)

	// VerifyReturn parse return URL, verify chữ ký nếu có
	VerifyReturn(params momo.ReturnParams) (*momo.BestEffortPaymentUpdate, error)
}

var _ MomoGateway = (*momo.Client)(nil)
