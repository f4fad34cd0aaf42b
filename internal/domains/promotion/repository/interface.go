package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/promotion/model"
)

// PromotionRepository chỉ gồm các thao tác của bước discount trong checkout
type PromotionRepository interface {
	// GetByCodeForUpdateWithTx lock promotion row tới cuối transaction
	GetByCodeForUpdateWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.Promotion, error)
	CountUserUsageWithTx(ctx context.Context, tx pgx.Tx, promoID, userID uuid.UUID) (int, error)
	// CreateUsageWithTx insert promotion_usage và tăng current_uses
	CreateUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error
}
