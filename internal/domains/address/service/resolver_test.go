package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netshop-backend/internal/domains/address/model"
)

type stubRepo struct {
	addresses map[uuid.UUID]*model.Address
	created   []*model.Address
}

func (r *stubRepo) Create(_ context.Context, addr *model.Address) (*model.Address, error) {
	addr.ID = uuid.New()
	r.created = append(r.created, addr)
	return addr, nil
}

func (r *stubRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Address, error) {
	var out []model.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Address, error) {
	if a, ok := r.addresses[id]; ok {
		return a, nil
	}
	return nil, model.ErrAddressNotFound
}

func (r *stubRepo) GetByIDWithTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.Address, error) {
	return r.GetByID(ctx, id)
}

func TestResolve(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	addr := &model.Address{ID: uuid.New(), UserID: owner, Street: "1 Le Loi"}

	svc := NewAddressService(&stubRepo{addresses: map[uuid.UUID]*model.Address{addr.ID: addr}})

	t.Run("owner", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), owner, addr.ID)
		require.NoError(t, err)
		assert.Equal(t, addr.ID, got.ID)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), other, addr.ID)
		assert.ErrorIs(t, err, model.ErrAddressForbidden)
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := svc.ResolveWithTx(context.Background(), nil, owner, uuid.New())
		assert.ErrorIs(t, err, model.ErrAddressNotFound)
	})
}

func TestCreateAddress_Validation(t *testing.T) {
	repo := &stubRepo{}
	svc := NewAddressService(repo)
	userID := uuid.New()

	_, err := svc.CreateAddress(context.Background(), userID, &model.CreateAddressRequest{
		RecipientName: "A",
		Phone:         "123",
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)

	addr, err := svc.CreateAddress(context.Background(), userID, &model.CreateAddressRequest{
		RecipientName: "  Nguyen Van A ",
		Phone:         "0901234567",
		Province:      "Ho Chi Minh",
		District:      "Quan 1",
		Ward:          "Ben Nghe",
		Street:        "1 Le Loi",
		IsDefault:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", addr.RecipientName)
	assert.Equal(t, userID, addr.UserID)
	assert.Equal(t, "1 Le Loi, Ben Nghe, Quan 1, Ho Chi Minh", addr.FullAddress())
}
