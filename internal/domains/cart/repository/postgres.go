package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/cart/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
	}
}

const (
	cartColumns     = `id, user_id, session_id, created_at, updated_at`
	cartItemColumns = `id, cart_id, product_id, quantity, price, created_at, updated_at`
)

func scanCart(row pgx.Row) (*model.Cart, error) {
	var cart model.Cart
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.SessionID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	return &cart, nil
}

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.Price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByUserID implements RepositoryInterface.GetByUserID
func (r *postgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`

	cart, err := scanCart(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get user cart: %w", err)
	}
	return cart, nil
}

// GetOrCreateByUserID implements RepositoryInterface.GetOrCreateByUserID
func (r *postgresRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING ` + cartColumns

	cart, err := scanCart(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}
	return cart, nil
}

func (r *postgresRepository) GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	return getItems(ctx, r.pool, cartID)
}

func (r *postgresRepository) GetItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error) {
	return getItems(ctx, tx, cartID)
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getItems(ctx context.Context, q queryer, cartID uuid.UUID) ([]model.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = $1 ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// UpsertItem implements RepositoryInterface.UpsertItem
// INSERT hoặc cộng dồn quantity nếu item đã tồn tại
func (r *postgresRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*model.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (cart_id, product_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			price = EXCLUDED.price,
			updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <= $5
		RETURNING ` + cartItemColumns

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, cartID, productID, quantity, price, model.MaxItemQuantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrQuantityTooHigh
		}
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	r.touchCart(ctx, cartID)
	return item, nil
}

func (r *postgresRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*model.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3, price = $4, updated_at = NOW()
		WHERE cart_id = $1 AND product_id = $2
		RETURNING ` + cartItemColumns

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, cartID, productID, quantity, price))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	r.touchCart(ctx, cartID)
	return item, nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	r.touchCart(ctx, cartID)
	return nil
}

// ClearItemsWithTx implements RepositoryInterface.ClearItemsWithTx
func (r *postgresRepository) ClearItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return 0, fmt.Errorf("failed to touch cart: %w", err)
	}

	return tag.RowsAffected(), nil
}

// touchCart cập nhật updated_at; lỗi ở đây không ảnh hưởng thao tác chính
func (r *postgresRepository) touchCart(ctx context.Context, cartID uuid.UUID) {
	_, _ = r.pool.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID)
}
