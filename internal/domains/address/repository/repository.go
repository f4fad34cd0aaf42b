package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/address/model"
)

type Repository interface {
	// Create lưu address; nếu IsDefault thì bỏ default của các address khác cùng user
	Create(ctx context.Context, addr *model.Address) (*model.Address, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// GetByID trả model.ErrAddressNotFound khi không có row
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
	GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Address, error)
}
