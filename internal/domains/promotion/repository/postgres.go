package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/promotion/model"
)

// PostgresRepository triển khai PromotionRepository với PostgreSQL
type PostgresRepository struct{}

func NewPostgresRepository() PromotionRepository {
	return &PostgresRepository{}
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) GetByCodeForUpdateWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.Promotion, error) {
	query := `
		SELECT
			id, code, name, description,
			discount_type, discount_value, max_discount_amount,
			min_order_amount, max_uses, max_uses_per_user, current_uses,
			starts_at, expires_at, is_active, version,
			created_at, updated_at
		FROM promotions
		WHERE code = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	var p model.Promotion
	err := tx.QueryRow(ctx, query, code).Scan(
		&p.ID,                // id
		&p.Code,              // code
		&p.Name,              // name
		&p.Description,       // description (nullable)
		&p.DiscountType,      // discount_type
		&p.DiscountValue,     // discount_value
		&p.MaxDiscountAmount, // max_discount_amount (nullable)
		&p.MinOrderAmount,    // min_order_amount
		&p.MaxUses,           // max_uses (nullable)
		&p.MaxUsesPerUser,    // max_uses_per_user
		&p.CurrentUses,       // current_uses
		&p.StartsAt,          // starts_at
		&p.ExpiresAt,         // expires_at
		&p.IsActive,          // is_active
		&p.Version,           // version
		&p.CreatedAt,         // created_at
		&p.UpdatedAt,         // updated_at
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion by code: %w", err)
	}

	return &p, nil
}

func (r *PostgresRepository) CountUserUsageWithTx(ctx context.Context, tx pgx.Tx, promoID, userID uuid.UUID) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM promotion_usage WHERE promotion_id = $1 AND user_id = $2`,
		promoID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count promotion usage: %w", err)
	}
	return count, nil
}

// -------------------------------------------------------------------
// USAGE TRACKING
// -------------------------------------------------------------------

func (r *PostgresRepository) CreateUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error {
	query := `
		INSERT INTO promotion_usage (promotion_id, user_id, order_id, discount_amount, used_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, used_at
	`
	err := tx.QueryRow(ctx, query,
		usage.PromotionID, usage.UserID, usage.OrderID, usage.DiscountAmount,
	).Scan(&usage.ID, &usage.UsedAt)
	if err != nil {
		return fmt.Errorf("create promotion usage: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE promotions
		SET current_uses = current_uses + 1, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, usage.PromotionID)
	if err != nil {
		return fmt.Errorf("increment promotion uses: %w", err)
	}

	return nil
}
