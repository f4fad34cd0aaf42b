package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/pkg/logger"
)

// =====================================================
// READS
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*model.OrderDetail, error) {
	detail, err := s.loadDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(&detail.Order, userID, isAdmin); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string, userID uuid.UUID, isAdmin bool) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, notFound(err)
	}
	if err := checkAccess(order, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, order.ID)
}

func (s *orderService) GetHistory(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) ([]model.OrderHistory, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := checkAccess(order, userID, isAdmin); err != nil {
		return nil, err
	}
	return s.orderRepo.GetHistory(ctx, orderID)
}

// loadDetail đọc order + items, cache theo order id
func (s *orderService) loadDetail(ctx context.Context, orderID uuid.UUID) (*model.OrderDetail, error) {
	key := DetailCacheKey(orderID)

	if s.cache != nil {
		var cached model.OrderDetail
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Order cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if found {
			return &cached, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	items, err := s.orderRepo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	detail := model.NewOrderDetail(order, items)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, detail, s.cacheTTL()); err != nil {
			logger.Warn("Order cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return detail, nil
}

// =====================================================
// LISTS
// =====================================================

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) (*model.ListOrdersResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orders, total, err := s.orderRepo.ListByUserID(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, orders, total, req)
}

func (s *orderService) ListAllOrders(ctx context.Context, req model.ListOrdersRequest) (*model.ListOrdersResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orders, total, err := s.orderRepo.ListAll(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, orders, total, req)
}

func (s *orderService) summarize(ctx context.Context, orders []model.Order, total int, req model.ListOrdersRequest) (*model.ListOrdersResponse, error) {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	counts := map[uuid.UUID]int{}
	if len(ids) > 0 {
		var err error
		if counts, err = s.orderRepo.CountItemsByOrderIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	summaries := make([]model.OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, model.NewOrderSummary(&orders[i], counts[orders[i].ID]))
	}

	return &model.ListOrdersResponse{
		Orders: summaries,
		Total:  total,
		Page:   req.Page,
		Limit:  req.Limit,
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

func checkAccess(order *model.Order, userID uuid.UUID, isAdmin bool) error {
	if isAdmin || order.IsOwnedBy(userID) {
		return nil
	}
	return model.NewOrderError(model.ErrCodeForbidden, "You do not have access to this order", model.ErrForbidden)
}

func notFound(err error) error {
	if errors.Is(err, model.ErrOrderNotFound) {
		return model.NewOrderError(model.ErrCodeOrderNotFound, "Order not found", err)
	}
	return err
}
