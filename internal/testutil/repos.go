package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	addressModel "netshop-backend/internal/domains/address/model"
	cartModel "netshop-backend/internal/domains/cart/model"
	orderModel "netshop-backend/internal/domains/order/model"
	paymentModel "netshop-backend/internal/domains/payment/model"
	productModel "netshop-backend/internal/domains/product/model"
)

// =====================================================
// PRODUCTS
// =====================================================

type ProductRepo struct{ s *Store }

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*productModel.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, productModel.ErrProductNotFound
	}
	return &p, nil
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*productModel.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]*productModel.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.st.products[id]; ok {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

func (r *ProductRepo) GetByIDsWithTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*productModel.Product, error) {
	return r.GetByIDs(ctx, ids)
}

func (r *ProductRepo) DecrementStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err, ok := r.s.decrementErr[productID]; ok {
		return err
	}
	p, ok := r.s.st.products[productID]
	if !ok || p.StockQuantity < quantity {
		return productModel.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	r.s.st.products[productID] = p
	return nil
}

func (r *ProductRepo) RestoreStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[productID]
	if !ok {
		return productModel.ErrProductNotFound
	}
	p.StockQuantity += quantity
	r.s.st.products[productID] = p
	return nil
}

// =====================================================
// ADDRESSES
// =====================================================

type AddressRepo struct{ s *Store }

func (r *AddressRepo) Create(ctx context.Context, addr *addressModel.Address) (*addressModel.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := *addr
	a.ID = uuid.New()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	if a.IsDefault {
		for id, other := range r.s.st.addresses {
			if other.UserID == a.UserID && other.IsDefault {
				other.IsDefault = false
				r.s.st.addresses[id] = other
			}
		}
	}
	r.s.st.addresses[a.ID] = a
	return &a, nil
}

func (r *AddressRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]addressModel.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []addressModel.Address{}
	for _, a := range r.s.st.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*addressModel.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.addresses[id]
	if !ok {
		return nil, addressModel.ErrAddressNotFound
	}
	return &a, nil
}

func (r *AddressRepo) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*addressModel.Address, error) {
	return r.GetByID(ctx, id)
}

// =====================================================
// CARTS
// =====================================================

type CartRepo struct{ s *Store }

func (r *CartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*cartModel.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.carts {
		if c.IsOwnedBy(userID) {
			return &c, nil
		}
	}
	return nil, cartModel.ErrCartNotFound
}

func (r *CartRepo) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (*cartModel.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.cartOf(userID)
	return &c, nil
}

func (r *CartRepo) GetItems(ctx context.Context, cartID uuid.UUID) ([]cartModel.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]cartModel.CartItem{}, r.s.st.cartItems[cartID]...), nil
}

func (r *CartRepo) GetItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) ([]cartModel.CartItem, error) {
	return r.GetItems(ctx, cartID)
}

func (r *CartRepo) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*cartModel.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.st.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Quantity+quantity > cartModel.MaxItemQuantity {
				return nil, cartModel.ErrQuantityTooHigh
			}
			items[i].Quantity += quantity
			items[i].Price = price
			items[i].UpdatedAt = r.s.now()
			item := items[i]
			return &item, nil
		}
	}
	item := cartModel.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: r.s.now(),
	}
	r.s.st.cartItems[cartID] = append(items, item)
	return &item, nil
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*cartModel.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.st.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			items[i].Price = price
			item := items[i]
			return &item, nil
		}
	}
	return nil, cartModel.ErrCartItemNotFound
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.st.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			r.s.st.cartItems[cartID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return cartModel.ErrCartItemNotFound
}

func (r *CartRepo) ClearItemsWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.st.cartItems[cartID])
	delete(r.s.st.cartItems, cartID)
	return int64(n), nil
}

// =====================================================
// ORDERS
// =====================================================

type OrderRepo struct{ s *Store }

func (r *OrderRepo) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, o *orderModel.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.createOrderCalls++

	if r.s.numberConflicts > 0 {
		r.s.numberConflicts--
		return orderModel.ErrOrderNumberConflict
	}
	for _, existing := range r.s.st.orders {
		if existing.OrderNumber == o.OrderNumber {
			return orderModel.ErrOrderNumberConflict
		}
	}

	o.ID = uuid.New()
	o.CreatedAt = r.s.now()
	o.UpdatedAt = o.CreatedAt
	o.Version = 1
	r.s.st.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) CreateOrderItemWithTx(ctx context.Context, tx pgx.Tx, item *orderModel.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = uuid.New()
	item.CreatedAt = r.s.now()
	r.s.st.orderItems[item.OrderID] = append(r.s.st.orderItems[item.OrderID], *item)
	return nil
}

func (r *OrderRepo) CreateHistoryWithTx(ctx context.Context, tx pgx.Tx, h *orderModel.OrderHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h.ID = uuid.New()
	h.CreatedAt = r.s.now()
	r.s.st.history[h.OrderID] = append(r.s.st.history[h.OrderID], *h)
	return nil
}

func (r *OrderRepo) NextDailySequenceWithTx(ctx context.Context, tx pgx.Tx, day string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.counters[day]++
	return r.s.st.counters[day], nil
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID uuid.UUID) (*orderModel.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[orderID]
	if !ok {
		return nil, orderModel.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*orderModel.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.st.orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, orderModel.ErrOrderNotFound
}

func (r *OrderRepo) GetItems(ctx context.Context, orderID uuid.UUID) ([]orderModel.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]orderModel.OrderItem{}, r.s.st.orderItems[orderID]...), nil
}

func (r *OrderRepo) GetHistory(ctx context.Context, orderID uuid.UUID) ([]orderModel.OrderHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]orderModel.OrderHistory{}, r.s.st.history[orderID]...), nil
}

func (r *OrderRepo) CountItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]int, len(orderIDs))
	for _, id := range orderIDs {
		out[id] = len(r.s.st.orderItems[id])
	}
	return out, nil
}

func (r *OrderRepo) GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*orderModel.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *OrderRepo) GetByNumberForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderNumber string) (*orderModel.Order, error) {
	return r.GetByNumber(ctx, orderNumber)
}

func (r *OrderRepo) GetItemsWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]orderModel.OrderItem, error) {
	return r.GetItems(ctx, orderID)
}

func (r *OrderRepo) UpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, version int, upd *orderModel.OrderUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[orderID]
	if !ok || o.Version != version {
		return orderModel.ErrVersionMismatch
	}
	upd.ApplyTo(&o)
	o.UpdatedAt = r.s.now()
	r.s.st.orders[orderID] = o
	return nil
}

func (r *OrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID, req orderModel.ListOrdersRequest) ([]orderModel.Order, int, error) {
	return r.list(req, func(o orderModel.Order) bool { return o.UserID == userID })
}

func (r *OrderRepo) ListAll(ctx context.Context, req orderModel.ListOrdersRequest) ([]orderModel.Order, int, error) {
	return r.list(req, func(orderModel.Order) bool { return true })
}

func (r *OrderRepo) list(req orderModel.ListOrdersRequest, keep func(orderModel.Order) bool) ([]orderModel.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := []orderModel.Order{}
	for _, o := range r.s.st.orders {
		if !keep(o) {
			continue
		}
		if req.StatusID != 0 && int(o.StatusID) != req.StatusID {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (req.Page - 1) * req.Limit
	if start < 0 || start >= total {
		return []orderModel.Order{}, total, nil
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *OrderRepo) ListAwaitingPayment(ctx context.Context, paymentMethod string, createdBefore time.Time, limit int) ([]orderModel.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []orderModel.Order{}
	for _, o := range r.s.st.orders {
		if o.PaymentMethod != paymentMethod || o.StatusID.IsTerminal() || !o.CreatedAt.Before(createdBefore) {
			continue
		}
		if o.PaymentStatus != orderModel.PaymentStatusPending && o.PaymentStatus != orderModel.PaymentStatusFailed {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// =====================================================
// PAYMENT LOGS
// =====================================================

type PaymentLogRepo struct{ s *Store }

func (r *PaymentLogRepo) Create(ctx context.Context, l *paymentModel.PaymentLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = uuid.New()
	l.CreatedAt = r.s.now()
	r.s.st.paymentLogs = append(r.s.st.paymentLogs, *l)
	return nil
}

func (r *PaymentLogRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, l *paymentModel.PaymentLog) error {
	return r.Create(ctx, l)
}

func (r *PaymentLogRepo) HasAuthoritativeWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.st.paymentLogs {
		if l.OrderID != nil && *l.OrderID == orderID && l.Outcome == paymentModel.OutcomeApplied && l.IsAuthoritative() {
			return true, nil
		}
	}
	return false, nil
}

func (r *PaymentLogRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]paymentModel.PaymentLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []paymentModel.PaymentLog{}
	for i := len(r.s.st.paymentLogs) - 1; i >= 0; i-- {
		l := r.s.st.paymentLogs[i]
		if l.OrderID != nil && *l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}
