package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/cart/model"
)

type RepositoryInterface interface {
	// GetByUserID trả model.ErrCartNotFound nếu user chưa có cart
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	// GetOrCreateByUserID tạo cart lazily ở lần add đầu tiên
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	GetItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]model.CartItem, error)

	// UpsertItem cộng dồn quantity nếu product đã có trong cart và làm mới snapshot price.
	// Vượt quá MaxItemQuantity -> model.ErrQuantityTooHigh
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*model.CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error

	// ClearItemsWithTx xoá toàn bộ items, cart row giữ lại để dùng tiếp
	ClearItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error)
}
