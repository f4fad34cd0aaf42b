package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/order/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================
type OrderRepository interface {
	// Order writer (luôn chạy trong transaction)
	// CreateOrderWithTx trả model.ErrOrderNumberConflict khi trùng order_number
	CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateOrderItemWithTx(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error
	CreateHistoryWithTx(ctx context.Context, tx pgx.Tx, history *model.OrderHistory) error

	// NextDailySequenceWithTx tăng atomic counter của ngày (YYYYMMDD) và trả giá trị mới
	NextDailySequenceWithTx(ctx context.Context, tx pgx.Tx, day string) (int, error)

	// Reads
	GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	GetHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderHistory, error)
	CountItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error)

	// Row lock cho status machine / payment reconciliation
	GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error)
	GetByNumberForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderNumber string) (*model.Order, error)
	GetItemsWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// UpdateWithTx áp OrderUpdate với optimistic version check
	UpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, version int, upd *model.OrderUpdate) error

	// List operations
	ListByUserID(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) ([]model.Order, int, error)
	ListAll(ctx context.Context, req model.ListOrdersRequest) ([]model.Order, int, error)
	// ListAwaitingPayment: đơn chưa thanh toán của paymentMethod tạo trước createdBefore
	ListAwaitingPayment(ctx context.Context, paymentMethod string, createdBefore time.Time, limit int) ([]model.Order, error)
}
