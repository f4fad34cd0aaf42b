package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/domains/address/model"
	"netshop-backend/internal/domains/address/repository"
)

type ServiceInterface interface {
	CreateAddress(ctx context.Context, userID uuid.UUID, req *model.CreateAddressRequest) (*model.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// Resolve đảm bảo address tồn tại và thuộc về userID
	Resolve(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)
	ResolveWithTx(ctx context.Context, tx pgx.Tx, userID, addressID uuid.UUID) (*model.Address, error)
}

type addressService struct {
	repo repository.Repository
}

func NewAddressService(repo repository.Repository) ServiceInterface {
	return &addressService{
		repo: repo,
	}
}

// CreateAddress creates a new address for user
func (s *addressService) CreateAddress(ctx context.Context, userID uuid.UUID, req *model.CreateAddressRequest) (*model.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req.ToAddress(userID))
}

func (s *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	return s.repo.ListByUserID(ctx, userID)
}
