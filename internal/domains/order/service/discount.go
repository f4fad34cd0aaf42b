package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/order/model"
)

// DiscountApplier là bước discount của order writer, chạy trong transaction.
// Apply trả nil khi không có discount; code không hợp lệ -> wrap model.ErrDiscountNotApplicable.
type DiscountApplier interface {
	Apply(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string, subtotal decimal.Decimal) (*model.Discount, error)
	RecordUsage(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, discount *model.Discount) error
}

// NoDiscount luôn trả discount = 0 (bỏ qua discount_code)
type NoDiscount struct{}

func (NoDiscount) Apply(context.Context, pgx.Tx, uuid.UUID, string, decimal.Decimal) (*model.Discount, error) {
	return nil, nil
}

func (NoDiscount) RecordUsage(context.Context, pgx.Tx, uuid.UUID, uuid.UUID, *model.Discount) error {
	return nil
}
