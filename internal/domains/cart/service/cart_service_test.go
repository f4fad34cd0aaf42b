package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netshop-backend/internal/domains/cart/model"
	productModel "netshop-backend/internal/domains/product/model"
	"netshop-backend/internal/testutil"
)

type cartFixture struct {
	store  *testutil.Store
	svc    ServiceInterface
	userID uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	store := testutil.NewStore()
	return &cartFixture{
		store:  store,
		svc:    NewCartService(store.Carts(), store.Products()),
		userID: uuid.New(),
	}
}

func (f *cartFixture) add(productID uuid.UUID, qty int) (*model.CartItem, error) {
	return f.svc.AddItem(context.Background(), f.userID, &model.AddToCartRequest{ProductID: productID, Quantity: qty})
}

func TestAddItem_NewProductCreatesCartAndRow(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("router", 100000, 10)

	item, err := f.add(p.ID, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(100000)))
	require.Len(t, f.store.CartItems(f.userID), 1)
}

func TestAddItem_ExistingProductIncrements(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("router", 100000, 10)

	_, err := f.add(p.ID, 2)
	require.NoError(t, err)
	item, err := f.add(p.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	items := f.store.CartItems(f.userID)
	require.Len(t, items, 1, "one row per (cart, product)")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItem_IncrementRefreshesSnapshotPrice(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("router", 100000, 10)
	_, err := f.add(p.ID, 1)
	require.NoError(t, err)

	f.store.UpdateProduct(p.ID, func(p *productModel.Product) { p.Price = decimal.NewFromInt(90000) })
	item, err := f.add(p.ID, 1)

	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(90000)))
}

func TestAddItem_QuantityCappedAt99(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("cable", 10000, 500)

	_, err := f.add(p.ID, 60)
	require.NoError(t, err)

	_, err = f.add(p.ID, 40)
	assert.ErrorIs(t, err, model.ErrQuantityTooHigh)
	assert.Equal(t, 60, f.store.CartItems(f.userID)[0].Quantity)

	item, err := f.add(p.ID, 39)
	require.NoError(t, err)
	assert.Equal(t, model.MaxItemQuantity, item.Quantity)
}

func TestAddItem_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		setup   func(f *cartFixture) uuid.UUID
		wantErr error
	}{
		{
			name:    "unknown product",
			qty:     1,
			setup:   func(f *cartFixture) uuid.UUID { return uuid.New() },
			wantErr: productModel.ErrProductNotFound,
		},
		{
			name: "inactive product",
			qty:  1,
			setup: func(f *cartFixture) uuid.UUID {
				p := f.store.AddProduct("old", 1000, 5)
				f.store.UpdateProduct(p.ID, func(p *productModel.Product) { p.IsActive = false })
				return p.ID
			},
			wantErr: model.ErrProductNotActive,
		},
		{
			name:    "more than stock",
			qty:     6,
			setup:   func(f *cartFixture) uuid.UUID { return f.store.AddProduct("switch", 1000, 5).ID },
			wantErr: productModel.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(t)
			_, err := f.add(tt.setup(f), tt.qty)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.CartItems(f.userID))
		})
	}
}

func TestAddItem_QuantityOutOfRange(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("router", 100000, 500)

	for _, qty := range []int{0, -1, 100} {
		_, err := f.add(p.ID, qty)
		assert.Error(t, err, "quantity %d", qty)
	}
	assert.Empty(t, f.store.CartItems(f.userID))
}

func TestUpdateAndRemoveItem(t *testing.T) {
	f := newCartFixture(t)
	p := f.store.AddProduct("router", 100000, 10)
	_, err := f.add(p.ID, 2)
	require.NoError(t, err)

	item, err := f.svc.UpdateItem(context.Background(), f.userID, p.ID, &model.UpdateCartItemRequest{Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	_, err = f.svc.UpdateItem(context.Background(), f.userID, p.ID, &model.UpdateCartItemRequest{Quantity: 11})
	assert.ErrorIs(t, err, productModel.ErrInsufficientStock)

	require.NoError(t, f.svc.RemoveItem(context.Background(), f.userID, p.ID))
	assert.Empty(t, f.store.CartItems(f.userID))
	assert.ErrorIs(t, f.svc.RemoveItem(context.Background(), f.userID, p.ID), model.ErrCartItemNotFound)
}

func TestGetCart(t *testing.T) {
	f := newCartFixture(t)

	empty, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.Subtotal.IsZero())

	a := f.store.AddProduct("router", 100000, 10)
	b := f.store.AddProduct("cable", 20000, 10)
	f.store.AddCartItem(f.userID, a.ID, 2)
	f.store.AddCartItem(f.userID, b.ID, 1)

	cart, err := f.svc.GetCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.ItemsCount)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(220000)))
}

func TestValidateCart(t *testing.T) {
	f := newCartFixture(t)

	res, err := f.svc.ValidateCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.False(t, res.Valid, "no cart means nothing to check out")

	p := f.store.AddProduct("router", 100000, 1)
	f.store.AddCartItem(f.userID, p.ID, 3)

	res, err = f.svc.ValidateCart(context.Background(), f.userID)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.ItemErrors, 1)
	assert.Equal(t, model.ItemErrInsufficientStock, res.ItemErrors[0].Code)
	assert.Len(t, f.store.CartItems(f.userID), 1, "validation does not mutate the cart")
}
