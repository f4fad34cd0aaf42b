package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"netshop-backend/internal/domains/cart/model"
	"netshop-backend/internal/domains/cart/repository"
	productModel "netshop-backend/internal/domains/product/model"
	productRepo "netshop-backend/internal/domains/product/repository"
	"netshop-backend/pkg/logger"
)

type ServiceInterface interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req *model.UpdateCartItemRequest) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error

	// ValidateCart chạy Cart Validator trên cart hiện tại của user
	ValidateCart(ctx context.Context, userID uuid.UUID) (*model.ValidationResult, error)
}

type CartService struct {
	repository  repository.RepositoryInterface
	productRepo productRepo.Repository
}

func NewCartService(repo repository.RepositoryInterface, productRepo productRepo.Repository) ServiceInterface {
	return &CartService{
		repository:  repo,
		productRepo: productRepo,
	}
}

// GetCart trả cart kèm giá và stock hiện tại; user chưa có cart -> cart rỗng
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			return &model.CartResponse{Items: []model.CartItemResponse{}, Subtotal: decimal.Zero}, nil
		}
		return nil, err
	}

	items, err := s.repository.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.GetByIDs(ctx, ProductIDs(items))
	if err != nil {
		return nil, err
	}

	resp := &model.CartResponse{
		ID:       cart.ID,
		Items:    make([]model.CartItemResponse, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		itemResp := model.CartItemResponse{
			CartItem:     item,
			CurrentPrice: item.Price,
			LineTotal:    item.Subtotal(),
		}
		if p, ok := products[item.ProductID]; ok {
			itemResp.ProductName = p.Name
			itemResp.ProductSlug = p.Slug
			itemResp.ImageURL = p.ImageURL
			itemResp.CurrentPrice = p.EffectivePrice()
			itemResp.IsAvailable = p.IsActive && p.StockQuantity > 0
			itemResp.AvailableStock = p.StockQuantity
		}
		resp.Items = append(resp.Items, itemResp)
		resp.ItemsCount += item.Quantity
		resp.Subtotal = resp.Subtotal.Add(itemResp.LineTotal)
	}

	return resp, nil
}

// AddItem thêm product vào cart; đã có thì cộng dồn quantity
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, model.ErrProductNotActive
	}
	if p.StockQuantity < req.Quantity {
		return nil, productModel.ErrInsufficientStock
	}

	cart, err := s.repository.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repository.UpsertItem(ctx, cart.ID, p.ID, req.Quantity, p.EffectivePrice())
	if err != nil {
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": p.ID,
		"quantity":   item.Quantity,
	})

	return item, nil
}

// UpdateItem đặt lại quantity và làm mới snapshot price theo giá hiện tại
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req *model.UpdateCartItemRequest) (*model.CartItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.StockQuantity < req.Quantity {
		return nil, productModel.ErrInsufficientStock
	}

	return s.repository.UpdateItemQuantity(ctx, cart.ID, productID, req.Quantity, p.EffectivePrice())
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	cart, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.repository.RemoveItem(ctx, cart.ID, productID)
}

func (s *CartService) ValidateCart(ctx context.Context, userID uuid.UUID) (*model.ValidationResult, error) {
	cart, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			return CheckItems(nil, nil, nil), nil
		}
		return nil, err
	}

	items, err := s.repository.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}

	products, err := s.productRepo.GetByIDs(ctx, ProductIDs(items))
	if err != nil {
		return nil, err
	}

	return CheckItems(cart, items, products), nil
}
