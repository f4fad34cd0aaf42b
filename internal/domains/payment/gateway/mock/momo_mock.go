package mock

import (
	"context"
	"fmt"
	"sync"

	"netshop-backend/internal/domains/payment/gateway"
	"netshop-backend/internal/domains/payment/gateway/momo"
)

// =====================================================
// MOCK MOMO GATEWAY
// =====================================================

// MockMomoGateway dùng cho môi trường development (không có credentials) và tests.
// Chữ ký IPN vẫn được verify bằng secret thật của mock.
type MockMomoGateway struct {
	*momo.Signer

	mu        sync.Mutex
	Created   []momo.CreateRequest
	CreateErr error
	// QueryResults trả theo gateway order id; không có thì coi như đang chờ user
	QueryResults map[string]momo.PaymentResult
	QueryErr     error
}

func NewMockMomoGateway(accessKey, secretKey string) *MockMomoGateway {
	return &MockMomoGateway{
		Signer:       momo.NewSigner(accessKey, secretKey),
		QueryResults: map[string]momo.PaymentResult{},
	}
}

var _ gateway.MomoGateway = (*MockMomoGateway)(nil)

func (m *MockMomoGateway) CreatePayment(ctx context.Context, req momo.CreateRequest) (*momo.CreateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, req)

	return &momo.CreateResponse{
		OrderID:    req.OrderID.String(),
		RequestID:  fmt.Sprintf("mock-%d", len(m.Created)),
		PayURL:     fmt.Sprintf("https://mock-momo.local/pay?orderId=%s&amount=%s", req.OrderID, req.Amount.StringFixed(0)),
		ResultCode: momo.ResultCodeSuccess,
		Message:    "Successful.",
	}, nil
}

func (m *MockMomoGateway) QueryStatus(ctx context.Context, id momo.GatewayOrderID) (*momo.AuthoritativePaymentUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	result, ok := m.QueryResults[id.String()]
	if !ok {
		result = momo.PaymentResult{
			ResultCode: momo.ResultCodePendingConfirm,
			Message:    momo.GetResultMessage(momo.ResultCodePendingConfirm),
		}
	}
	result.GatewayOrderID = id
	return &momo.AuthoritativePaymentUpdate{Result: result, Source: momo.SourceQuery}, nil
}

// LastCreated trả request tạo payment gần nhất
func (m *MockMomoGateway) LastCreated() (momo.CreateRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Created) == 0 {
		return momo.CreateRequest{}, false
	}
	return m.Created[len(m.Created)-1], true
}
