package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/promotion/model"
)

type fakePromotionRepo struct {
	promos map[string]*model.Promotion
	usages []model.PromotionUsage
}

func newFakePromotionRepo(promos ...*model.Promotion) *fakePromotionRepo {
	r := &fakePromotionRepo{promos: map[string]*model.Promotion{}}
	for _, p := range promos {
		r.promos[p.Code] = p
	}
	return r
}

func (r *fakePromotionRepo) GetByCodeForUpdateWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.Promotion, error) {
	p, ok := r.promos[code]
	if !ok {
		return nil, model.ErrPromotionNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePromotionRepo) CountUserUsageWithTx(ctx context.Context, tx pgx.Tx, promoID, userID uuid.UUID) (int, error) {
	n := 0
	for _, u := range r.usages {
		if u.PromotionID == promoID && u.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakePromotionRepo) CreateUsageWithTx(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error {
	usage.ID = uuid.New()
	r.usages = append(r.usages, *usage)
	for _, p := range r.promos {
		if p.ID == usage.PromotionID {
			p.CurrentUses++
		}
	}
	return nil
}

var testNow = time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC)

func activePromo(code string) *model.Promotion {
	return &model.Promotion{
		ID:             uuid.New(),
		Code:           code,
		DiscountType:   model.DiscountTypeFixed,
		DiscountValue:  dec(20000),
		MinOrderAmount: dec(100000),
		MaxUsesPerUser: 1,
		StartsAt:       testNow.Add(-24 * time.Hour),
		ExpiresAt:      testNow.Add(24 * time.Hour),
		IsActive:       true,
	}
}

func newApplier(repo *fakePromotionRepo) *PromotionDiscount {
	d := NewPromotionDiscount(repo)
	d.now = func() time.Time { return testNow }
	return d
}

func TestPromotionDiscount_Apply(t *testing.T) {
	promo := activePromo("SALE20K")
	d := newApplier(newFakePromotionRepo(promo))

	got, err := d.Apply(context.Background(), nil, uuid.New(), " sale20k ", dec(150000))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SALE20K", got.Code)
	assert.Equal(t, promo.ID, *got.PromotionID)
	assert.True(t, dec(20000).Equal(got.Amount))
}

func TestPromotionDiscount_Apply_NotApplicable(t *testing.T) {
	two := 2
	tests := []struct {
		name   string
		mutate func(p *model.Promotion)
		want   error
	}{
		{"inactive", func(p *model.Promotion) { p.IsActive = false }, model.ErrPromotionInactive},
		{"not started", func(p *model.Promotion) { p.StartsAt = testNow.Add(time.Hour) }, model.ErrPromotionNotStarted},
		{"expired", func(p *model.Promotion) { p.ExpiresAt = testNow }, model.ErrPromotionExpired},
		{"exhausted", func(p *model.Promotion) { p.MaxUses = &two; p.CurrentUses = 2 }, model.ErrPromotionExhausted},
		{"below minimum", func(p *model.Promotion) { p.MinOrderAmount = dec(500000) }, model.ErrOrderAmountTooLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromo("CODE")
			tt.mutate(promo)
			d := newApplier(newFakePromotionRepo(promo))

			_, err := d.Apply(context.Background(), nil, uuid.New(), "CODE", dec(150000))

			assert.ErrorIs(t, err, orderModel.ErrDiscountNotApplicable)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPromotionDiscount_UnknownCode(t *testing.T) {
	d := newApplier(newFakePromotionRepo())

	_, err := d.Apply(context.Background(), nil, uuid.New(), "NOPE", dec(150000))

	assert.ErrorIs(t, err, orderModel.ErrDiscountNotApplicable)
	assert.ErrorIs(t, err, model.ErrPromotionNotFound)
}

func TestPromotionDiscount_PerUserLimit(t *testing.T) {
	promo := activePromo("ONCE")
	repo := newFakePromotionRepo(promo)
	d := newApplier(repo)
	userID := uuid.New()
	ctx := context.Background()

	discount, err := d.Apply(ctx, nil, userID, "ONCE", dec(150000))
	require.NoError(t, err)
	require.NoError(t, d.RecordUsage(ctx, nil, userID, uuid.New(), discount))
	assert.Equal(t, 1, promo.CurrentUses)

	_, err = d.Apply(ctx, nil, userID, "ONCE", dec(150000))
	assert.ErrorIs(t, err, model.ErrUserLimitExceeded)

	// user khác vẫn dùng được
	_, err = d.Apply(ctx, nil, uuid.New(), "ONCE", dec(150000))
	assert.NoError(t, err)
}

func TestPromotionDiscount_RecordUsageSkipsEmpty(t *testing.T) {
	repo := newFakePromotionRepo()
	d := newApplier(repo)

	require.NoError(t, d.RecordUsage(context.Background(), nil, uuid.New(), uuid.New(), &orderModel.Discount{}))
	assert.Empty(t, repo.usages)
}
