package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/address/model"
)

func (s *addressService) Resolve(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	return checkOwnership(addr, userID)
}

func (s *addressService) ResolveWithTx(ctx context.Context, tx pgx.Tx, userID, addressID uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.GetByIDWithTx(ctx, tx, addressID)
	if err != nil {
		return nil, err
	}
	return checkOwnership(addr, userID)
}

func checkOwnership(addr *model.Address, userID uuid.UUID) (*model.Address, error) {
	if addr.UserID != userID {
		return nil, model.ErrAddressForbidden
	}
	return addr, nil
}
