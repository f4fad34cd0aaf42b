package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// NextDailySequenceWithTx dùng một row counter cho mỗi ngày.
// INSERT ... ON CONFLICT DO UPDATE lock row đó tới khi transaction kết thúc,
// nên hai checkout đồng thời không bao giờ nhận cùng một giá trị.
// Counter không bao giờ nhỏ hơn seq lớn nhất đã có trong orders của ngày đó,
// nên sau khi retry vì trùng order_number thì giá trị mới luôn vượt qua số bị trùng.
func (r *postgresOrderRepository) NextDailySequenceWithTx(ctx context.Context, tx pgx.Tx, day string) (int, error) {
	query := `
		INSERT INTO order_number_counters (day, value, updated_at)
		VALUES (
			$1,
			COALESCE((
				SELECT MAX(CAST(SPLIT_PART(order_number, '-', 3) AS INTEGER))
				FROM orders
				WHERE order_number LIKE 'ORD-' || $1 || '-%'
			), 0) + 1,
			NOW()
		)
		ON CONFLICT (day) DO UPDATE
		SET value = GREATEST(order_number_counters.value, EXCLUDED.value - 1) + 1,
			updated_at = NOW()
		RETURNING value
	`

	var value int
	if err := tx.QueryRow(ctx, query, day).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to increment order number counter: %w", err)
	}
	return value, nil
}
