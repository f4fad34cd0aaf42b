package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	orderModel "netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/promotion/model"
	"netshop-backend/internal/domains/promotion/repository"
	"netshop-backend/pkg/logger"
)

// PromotionDiscount áp dụng promotion code trong transaction tạo order.
// Promotion row bị lock (FOR UPDATE) nên current_uses không vượt max_uses khi checkout đồng thời.
type PromotionDiscount struct {
	repo       repository.PromotionRepository
	calculator *DiscountCalculator
	now        func() time.Time
}

func NewPromotionDiscount(repo repository.PromotionRepository) *PromotionDiscount {
	return &PromotionDiscount{
		repo:       repo,
		calculator: NewDiscountCalculator(),
		now:        time.Now,
	}
}

// Apply validate code và tính discount cho subtotal.
// Mọi lý do không áp dụng được đều wrap orderModel.ErrDiscountNotApplicable.
func (d *PromotionDiscount) Apply(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string, subtotal decimal.Decimal) (*orderModel.Discount, error) {
	code = model.NormalizeCode(code)
	if code == "" {
		return nil, nil
	}

	promo, err := d.repo.GetByCodeForUpdateWithTx(ctx, tx, code)
	if err != nil {
		if errors.Is(err, model.ErrPromotionNotFound) {
			return nil, notApplicable(err)
		}
		return nil, err
	}

	if err := promo.CheckAvailable(d.now()); err != nil {
		return nil, notApplicable(err)
	}
	if err := promo.CheckMinOrder(subtotal); err != nil {
		return nil, notApplicable(err)
	}

	used, err := d.repo.CountUserUsageWithTx(ctx, tx, promo.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := promo.CheckUserUsage(used); err != nil {
		return nil, notApplicable(err)
	}

	b := d.calculator.Breakdown(promo, subtotal)
	if !b.FinalDiscount.IsPositive() {
		return nil, notApplicable(model.ErrInvalidDiscountType)
	}

	logger.Info("Promotion applied", map[string]interface{}{
		"code":      promo.Code,
		"user_id":   userID.String(),
		"subtotal":  subtotal.String(),
		"discount":  b.FinalDiscount.String(),
		"capped":    b.Capped,
		"cap_reason": b.CapReason,
	})

	id := promo.ID
	return &orderModel.Discount{
		Code:        promo.Code,
		PromotionID: &id,
		Amount:      b.FinalDiscount,
	}, nil
}

// RecordUsage ghi promotion_usage sau khi order đã insert
func (d *PromotionDiscount) RecordUsage(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID, discount *orderModel.Discount) error {
	if discount == nil || discount.PromotionID == nil {
		return nil
	}
	return d.repo.CreateUsageWithTx(ctx, tx, &model.PromotionUsage{
		PromotionID:    *discount.PromotionID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount.Amount,
	})
}

func notApplicable(reason error) error {
	return fmt.Errorf("%w: %w", orderModel.ErrDiscountNotApplicable, reason)
}
