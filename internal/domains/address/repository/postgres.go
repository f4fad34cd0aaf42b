package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netshop-backend/internal/domains/address/model"
	"netshop-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{
		pool: pool,
	}
}

const addressColumns = `id, user_id, recipient_name, phone, province, district, ward, street,
	address_type, is_default, notes, created_at, updated_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	var addr model.Address
	err := row.Scan(
		&addr.ID, &addr.UserID, &addr.RecipientName, &addr.Phone,
		&addr.Province, &addr.District, &addr.Ward, &addr.Street,
		&addr.AddressType, &addr.IsDefault, &addr.Notes,
		&addr.CreatedAt, &addr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// Create inserts a new address record
func (r *postgresRepository) Create(ctx context.Context, addr *model.Address) (*model.Address, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Address, error) {
		if addr.IsDefault {
			_, err := tx.Exec(ctx,
				`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`,
				addr.UserID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to reset default address: %w", err)
			}
		}

		query := `
			INSERT INTO addresses
			(user_id, recipient_name, phone, province, district, ward, street, address_type, is_default, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING ` + addressColumns

		created, err := scanAddress(tx.QueryRow(
			ctx, query,
			addr.UserID, addr.RecipientName, addr.Phone, addr.Province, addr.District,
			addr.Ward, addr.Street, addr.AddressType, addr.IsDefault, addr.Notes,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to create address: %w", err)
		}
		return created, nil
	})
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]model.Address, 0)
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *addr)
	}
	return addresses, rows.Err()
}

// GetByID retrieves an address by ID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	return getByID(r.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
}

func (r *postgresRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Address, error) {
	return getByID(tx.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
}

func getByID(row pgx.Row) (*model.Address, error) {
	addr, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return addr, nil
}
