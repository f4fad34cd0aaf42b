package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"netshop-backend/internal/config"
	addressModel "netshop-backend/internal/domains/address/model"
	addressService "netshop-backend/internal/domains/address/service"
	cartModel "netshop-backend/internal/domains/cart/model"
	cartRepo "netshop-backend/internal/domains/cart/repository"
	cartService "netshop-backend/internal/domains/cart/service"
	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/repository"
	productModel "netshop-backend/internal/domains/product/model"
	productRepo "netshop-backend/internal/domains/product/repository"
	"netshop-backend/internal/shared"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/cache"
	"netshop-backend/pkg/database"
	"netshop-backend/pkg/logger"
)

// maxCreateAttempts: số lần chạy lại cả transaction khi trùng order_number
const maxCreateAttempts = 3

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	db          database.TxStarter
	orderRepo   repository.OrderRepository
	cartRepo    cartRepo.RepositoryInterface
	productRepo productRepo.Repository
	addresses   addressService.ServiceInterface
	pricing     *Pricing
	numbers     *OrderNumberGenerator
	machine     *StatusMachine
	discounts   DiscountApplier
	payments    PaymentInitiator
	enqueuer    shared.TaskEnqueuer // DI từ container (*asynq.Client)
	cache       cache.Cache
	cfg         config.OrderConfig
}

// Deps gom dependencies của order service (container build)
type Deps struct {
	DB          database.TxStarter
	OrderRepo   repository.OrderRepository
	CartRepo    cartRepo.RepositoryInterface
	ProductRepo productRepo.Repository
	Addresses   addressService.ServiceInterface
	Machine     *StatusMachine
	Discounts   DiscountApplier
	Payments    PaymentInitiator
	Enqueuer    shared.TaskEnqueuer
	Cache       cache.Cache
	Config      config.OrderConfig
}

// NewOrderService creates a new order service
func NewOrderService(d Deps) OrderService {
	discounts := d.Discounts
	if discounts == nil {
		discounts = NoDiscount{}
	}
	machine := d.Machine
	if machine == nil {
		machine = NewStatusMachine(d.OrderRepo, d.ProductRepo)
	}

	return &orderService{
		db:          d.DB,
		orderRepo:   d.OrderRepo,
		cartRepo:    d.CartRepo,
		productRepo: d.ProductRepo,
		addresses:   d.Addresses,
		pricing:     NewPricing(d.Config),
		numbers:     NewOrderNumberGenerator(d.OrderRepo, d.Config.UTCOffsetHours),
		machine:     machine,
		discounts:   discounts,
		payments:    d.Payments,
		enqueuer:    d.Enqueuer,
		cache:       d.Cache,
		cfg:         d.Config,
	}
}

// =====================================================
// CREATE ORDER - CHECKOUT TỪ CART
// =====================================================

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.PaymentMethod == model.PaymentMethodMomo && s.payments == nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidPayment, "MoMo payment is not available", model.ErrPaymentGatewayNotReady)
	}

	// 1. Pre-check ngoài transaction để fail nhanh
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, cartModel.ErrCartNotFound) {
			return nil, model.NewOrderError(model.ErrCodeCartEmpty, "Cart is empty", model.ErrCartEmpty)
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	products, err := s.productRepo.GetByIDs(ctx, cartService.ProductIDs(items))
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if err := checkCart(cart, items, products); err != nil {
		return nil, err
	}

	if _, err := s.addresses.Resolve(ctx, userID, req.ShippingAddressID); err != nil {
		return nil, mapAddressError(err)
	}
	if _, err := s.addresses.Resolve(ctx, userID, req.BillingOrShipping()); err != nil {
		return nil, mapAddressError(err)
	}

	// 2. Order writer: retry cả transaction khi order_number bị trùng
	var order *model.Order
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		order, err = database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) (*model.Order, error) {
			return s.createOrderTx(ctx, tx, userID, cart, &req)
		})
		if !errors.Is(err, model.ErrOrderNumberConflict) {
			break
		}
		logger.Warn("Order number conflict, retrying", map[string]interface{}{
			"user_id": userID,
			"attempt": attempt,
		})
	}
	if err != nil {
		if errors.Is(err, model.ErrOrderNumberConflict) {
			return nil, model.NewOrderError(model.ErrCodeOrderNumberConflict, "Could not allocate order number, please retry", err)
		}
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"user_id":        userID,
		"payment_method": order.PaymentMethod,
		"total":          order.TotalAmount.String(),
	})

	// 3. Side effects sau commit: lỗi chỉ log, không rollback đơn
	s.enqueueConfirmation(ctx, order)

	resp := &model.CreateOrderResponse{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		StatusID:       order.StatusID,
		Status:         order.StatusID.String(),
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Subtotal:       order.Subtotal,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		TotalAmount:    order.TotalAmount,
		CreatedAt:      order.CreatedAt,
	}

	if order.PaymentMethod == model.PaymentMethodMomo {
		s.enqueueExpireUnpaid(ctx, order)

		payURL, err := s.payments.StartPayment(ctx, order)
		if err != nil {
			// Đơn vẫn tồn tại; client dùng retry-payment để lấy pay URL mới
			logger.Warn("Failed to start MoMo payment", map[string]interface{}{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		} else {
			resp.PayURL = &payURL
		}
	}

	return resp, nil
}

// createOrderTx: validate lại, tính tiền, sinh số, ghi order + items + history,
// trừ kho và xoá cart. Mọi lỗi làm rollback toàn bộ.
func (s *orderService) createOrderTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, cart *cartModel.Cart, req *model.CreateOrderRequest) (*model.Order, error) {
	items, err := s.cartRepo.GetItemsWithTx(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	products, err := s.productRepo.GetByIDsWithTx(ctx, tx, cartService.ProductIDs(items))
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	result := cartService.CheckItems(cart, items, products)
	if err := validationError(result); err != nil {
		return nil, err
	}

	shipping, err := s.addresses.ResolveWithTx(ctx, tx, userID, req.ShippingAddressID)
	if err != nil {
		return nil, mapAddressError(err)
	}
	billing, err := s.addresses.ResolveWithTx(ctx, tx, userID, req.BillingOrShipping())
	if err != nil {
		return nil, mapAddressError(err)
	}

	discount, err := s.applyDiscount(ctx, tx, userID, req.DiscountCode, result)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.pricing.Compute(result.Subtotal, req.ShippingMethod, discount.Amount)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.numbers.Generate(ctx, tx)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber:       orderNumber,
		UserID:            userID,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		StatusID:          model.StatusPending,
		ShippingAddressID: shipping.ID,
		ShippingAddress:   snapshotAddress(shipping),
		BillingAddressID:  billing.ID,
		BillingAddress:    snapshotAddress(billing),
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     model.PaymentStatusPending,
		ShippingMethod:    req.ShippingMethod,
		Subtotal:          breakdown.Subtotal,
		ShippingFee:       breakdown.ShippingFee,
		DiscountAmount:    breakdown.DiscountAmount,
		TaxAmount:         breakdown.TaxAmount,
		TotalAmount:       breakdown.TotalAmount,
		CustomerNote:      req.CustomerNote,
	}
	if discount.Code != "" {
		order.DiscountCode = &discount.Code
		order.PromotionID = discount.PromotionID
	}
	if order.CustomerPhone == nil {
		phone := shipping.Phone
		order.CustomerPhone = &phone
	}

	if err := s.orderRepo.CreateOrderWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	for _, line := range result.Lines {
		item := &model.OrderItem{
			OrderID:         order.ID,
			ProductID:       line.Item.ProductID,
			ProductName:     line.ProductName,
			ProductSKU:      line.ProductSKU,
			ProductImageURL: line.ImageURL,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Item.Quantity,
			Subtotal:        line.LineTotal,
		}
		if err := s.orderRepo.CreateOrderItemWithTx(ctx, tx, item); err != nil {
			return nil, err
		}

		if err := s.productRepo.DecrementStockWithTx(ctx, tx, line.Item.ProductID, line.Item.Quantity); err != nil {
			if errors.Is(err, productModel.ErrInsufficientStock) {
				return nil, model.NewOrderError(
					model.ErrCodeInsufficientStock,
					fmt.Sprintf("Insufficient stock for %s", line.ProductName),
					err,
				)
			}
			return nil, err
		}
	}

	if discount.Code != "" {
		if err := s.discounts.RecordUsage(ctx, tx, userID, order.ID, discount); err != nil {
			return nil, err
		}
	}

	note := "Order created"
	actor := userID
	if err := s.orderRepo.CreateHistoryWithTx(ctx, tx, &model.OrderHistory{
		OrderID:  order.ID,
		StatusID: model.StatusPending,
		Note:     &note,
		ActorID:  &actor,
	}); err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.ClearItemsWithTx(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return order, nil
}

// applyDiscount trả Discount rỗng (amount = 0) khi không có code
func (s *orderService) applyDiscount(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code *string, result *cartModel.ValidationResult) (*model.Discount, error) {
	empty := &model.Discount{}
	if code == nil || *code == "" {
		return empty, nil
	}

	discount, err := s.discounts.Apply(ctx, tx, userID, *code, result.Subtotal)
	if err != nil {
		if errors.Is(err, model.ErrDiscountNotApplicable) {
			return nil, model.NewOrderError(model.ErrCodeDiscountInvalid, err.Error(), err)
		}
		return nil, err
	}
	if discount == nil {
		return empty, nil
	}
	// discount không bao giờ lớn hơn subtotal
	if discount.Amount.GreaterThan(result.Subtotal) {
		discount.Amount = result.Subtotal
	}
	return discount, nil
}

// =====================================================
// HELPERS
// =====================================================

func checkCart(cart *cartModel.Cart, items []cartModel.CartItem, products map[uuid.UUID]*productModel.Product) error {
	return validationError(cartService.CheckItems(cart, items, products))
}

func validationError(result *cartModel.ValidationResult) error {
	if result.Valid {
		return nil
	}
	if len(result.Items) == 0 {
		return model.NewOrderError(model.ErrCodeCartEmpty, "Cart is empty", model.ErrCartEmpty)
	}
	return model.NewOrderError(model.ErrCodeCartInvalid, "Cart contains invalid items", model.ErrCartInvalid).
		WithDetails(result.ItemErrors)
}

func mapAddressError(err error) error {
	switch {
	case errors.Is(err, addressModel.ErrAddressNotFound):
		return model.NewOrderError(model.ErrCodeAddressNotFound, "Address not found", err)
	case errors.Is(err, addressModel.ErrAddressForbidden):
		return model.NewOrderError(model.ErrCodeForbidden, "Address does not belong to this user", err)
	default:
		return err
	}
}

func snapshotAddress(a *addressModel.Address) model.AddressSnapshot {
	return model.AddressSnapshot{
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Province:      a.Province,
		District:      a.District,
		Ward:          a.Ward,
		Street:        a.Street,
	}
}

func (s *orderService) enqueueConfirmation(ctx context.Context, order *model.Order) {
	if s.enqueuer == nil || order.CustomerEmail == "" {
		return
	}
	task, err := utils.NewTask(shared.TypeSendOrderConfirmation, model.OrderConfirmationPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       order.CustomerEmail,
	})
	if err == nil {
		_, err = s.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(shared.QueueDefault),
			asynq.MaxRetry(5),
		)
	}
	if err != nil {
		logger.ErrorWithFields("Failed to enqueue order confirmation", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

func (s *orderService) enqueueExpireUnpaid(ctx context.Context, order *model.Order) {
	if s.enqueuer == nil || s.cfg.PaymentTimeout <= 0 {
		return
	}
	task, err := utils.NewTask(shared.TypeExpireUnpaidOrder, model.ExpireUnpaidPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	})
	if err == nil {
		_, err = s.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(shared.QueueHigh),
			asynq.MaxRetry(3),
			asynq.ProcessIn(s.cfg.PaymentTimeout),
			asynq.TaskID("expire:"+order.ID.String()),
		)
	}
	if err != nil {
		logger.ErrorWithFields("Failed to enqueue unpaid order expiry", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// DetailCacheKey là key của order detail cache; payment domain cũng xoá key này
func DetailCacheKey(orderID uuid.UUID) string {
	return "order:detail:" + orderID.String()
}

func (s *orderService) invalidate(ctx context.Context, orderID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, DetailCacheKey(orderID)); err != nil {
		logger.Warn("Failed to invalidate order cache", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
	}
}

func (s *orderService) cacheTTL() time.Duration {
	if s.cfg.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return s.cfg.CacheTTL
}
