package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"netshop-backend/internal/domains/order/model"
)

// =====================================================
// ORDER SERVICE INTERFACE
// =====================================================
type OrderService interface {
	// Create new order from the user's cart (một transaction)
	CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)

	// Get order detail; admin bỏ qua ownership check
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*model.OrderDetail, error)
	GetOrderByNumber(ctx context.Context, orderNumber string, userID uuid.UUID, isAdmin bool) (*model.OrderDetail, error)
	GetHistory(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) ([]model.OrderHistory, error)

	// List user's orders with pagination
	ListOrders(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) (*model.ListOrdersResponse, error)

	// Cancel order (by user), chỉ khi status <= confirmed
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID, req model.CancelOrderRequest) (*model.OrderDetail, error)

	// Admin
	UpdateOrderStatus(ctx context.Context, orderID, adminID uuid.UUID, req model.UpdateOrderStatusRequest) (*model.OrderDetail, error)
	ListAllOrders(ctx context.Context, req model.ListOrdersRequest) (*model.ListOrdersResponse, error)
	ExportOrders(ctx context.Context, req model.ListOrdersRequest, w io.Writer) error

	// ExpireUnpaidOrder huỷ đơn MoMo quá hạn thanh toán (system actor)
	ExpireUnpaidOrder(ctx context.Context, orderID uuid.UUID) error
}

// PaymentInitiator mở phiên thanh toán online cho đơn vừa tạo và trả pay URL.
// Implement ở payment domain; nil khi gateway bị tắt.
type PaymentInitiator interface {
	StartPayment(ctx context.Context, order *model.Order) (string, error)
}
