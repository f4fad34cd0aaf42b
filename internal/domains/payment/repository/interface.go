package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT LOG REPOSITORY INTERFACE
// =====================================================
type PaymentLogRepository interface {
	// Create ghi log ngoài transaction (chữ ký sai, create payment...)
	Create(ctx context.Context, log *model.PaymentLog) error

	// CreateWithTx ghi log cùng transaction reconcile
	CreateWithTx(ctx context.Context, tx pgx.Tx, log *model.PaymentLog) error

	// HasAuthoritativeWithTx: order đã có IPN hợp lệ hoặc query được áp dụng chưa (mọi attempt)
	HasAuthoritativeWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)

	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.PaymentLog, error)
}
