// Package testutil chứa in-memory store dùng chung cho service tests.
// Store giả lập transaction bằng snapshot: Begin chụp state, Rollback khôi phục.
package testutil

import (
	"context"
	"sync"
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

type state struct {
	products    map[uuid.UUID]productModel.Product
	addresses   map[uuid.UUID]addressModel.Address
	carts       map[uuid.UUID]cartModel.Cart
	cartItems   map[uuid.UUID][]cartModel.CartItem
	orders      map[uuid.UUID]orderModel.Order
	orderItems  map[uuid.UUID][]orderModel.OrderItem
	history     map[uuid.UUID][]orderModel.OrderHistory
	counters    map[string]int
	paymentLogs []paymentModel.PaymentLog
}

func newState() *state {
	return &state{
		products:   map[uuid.UUID]productModel.Product{},
		addresses:  map[uuid.UUID]addressModel.Address{},
		carts:      map[uuid.UUID]cartModel.Cart{},
		cartItems:  map[uuid.UUID][]cartModel.CartItem{},
		orders:     map[uuid.UUID]orderModel.Order{},
		orderItems: map[uuid.UUID][]orderModel.OrderItem{},
		history:    map[uuid.UUID][]orderModel.OrderHistory{},
		counters:   map[string]int{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.cartItems {
		c.cartItems[k] = append([]cartModel.CartItem(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = append([]orderModel.OrderItem(nil), v...)
	}
	for k, v := range s.history {
		c.history[k] = append([]orderModel.OrderHistory(nil), v...)
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	c.paymentLogs = append([]paymentModel.PaymentLog(nil), s.paymentLogs...)
	return c
}

// Store implements các repository của product, address, cart và order trên memory
type Store struct {
	txMu sync.Mutex // một transaction tại một thời điểm
	mu   sync.Mutex

	st       *state
	snapshot *state
	tick     time.Duration

	Commits   int
	Rollbacks int

	decrementErr     map[uuid.UUID]error
	numberConflicts  int
	createOrderCalls int
}

func NewStore() *Store {
	return &Store{
		st:           newState(),
		decrementErr: map[uuid.UUID]error{},
	}
}

// now tăng dần để thứ tự created_at ổn định
func (s *Store) now() time.Time {
	s.tick += time.Millisecond
	return time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC).Add(s.tick)
}

// =====================================================
// TRANSACTIONS
// =====================================================

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	s.mu.Lock()
	s.snapshot = s.st.clone()
	s.mu.Unlock()
	return &fakeTx{store: s}, nil
}

// fakeTx chỉ implement Commit/Rollback; repository trong store không chạy SQL
type fakeTx struct {
	pgx.Tx
	store *Store
	done  bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	s.snapshot = nil
	s.Commits++
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	s.st = s.snapshot
	s.snapshot = nil
	s.Rollbacks++
	s.mu.Unlock()
	s.txMu.Unlock()
	return nil
}

// =====================================================
// FAILURE INJECTION
// =====================================================

// FailDecrement làm DecrementStockWithTx của productID trả err
func (s *Store) FailDecrement(productID uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decrementErr[productID] = err
}

// ConflictOrderNumbers làm n lần CreateOrderWithTx tiếp theo trả ErrOrderNumberConflict
func (s *Store) ConflictOrderNumbers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numberConflicts = n
}

func (s *Store) CreateOrderCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOrderCalls
}

// =====================================================
// SEED HELPERS
// =====================================================

func (s *Store) AddProduct(name string, price int64, stock int) *productModel.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := productModel.Product{
		ID:            uuid.New(),
		SKU:           "SKU-" + name,
		Name:          name,
		Slug:          name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsActive:      true,
		UpdatedAt:     s.now(),
	}
	s.st.products[p.ID] = p
	return &p
}

// UpdateProduct sửa product trực tiếp (đổi giá, tắt product...)
func (s *Store) UpdateProduct(id uuid.UUID, fn func(p *productModel.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.st.products[id]
	fn(&p)
	s.st.products[id] = p
}

func (s *Store) Product(id uuid.UUID) productModel.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[id]
}

func (s *Store) AddAddress(userID uuid.UUID) *addressModel.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := addressModel.Address{
		ID:            uuid.New(),
		UserID:        userID,
		RecipientName: "Nguyen Van A",
		Phone:         "0901234567",
		Province:      "Ho Chi Minh",
		District:      "Quan 1",
		Ward:          "Ben Nghe",
		Street:        "1 Le Loi",
		CreatedAt:     s.now(),
	}
	s.st.addresses[a.ID] = a
	return &a
}

// AddCartItem tạo cart (nếu chưa có) và thêm item với snapshot = giá hiện tại
func (s *Store) AddCartItem(userID, productID uuid.UUID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartOf(userID)
	p := s.st.products[productID]
	s.st.cartItems[cart.ID] = append(s.st.cartItems[cart.ID], cartModel.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     p.EffectivePrice(),
		CreatedAt: s.now(),
	})
}

func (s *Store) CartItems(userID uuid.UUID) []cartModel.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.st.carts {
		if c.IsOwnedBy(userID) {
			return append([]cartModel.CartItem(nil), s.st.cartItems[c.ID]...)
		}
	}
	return nil
}

// SeedOrder lưu order có sẵn (vd: đơn đang shipped) kèm items
func (s *Store) SeedOrder(o orderModel.Order, items ...orderModel.OrderItem) *orderModel.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Version == 0 {
		o.Version = 1
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = o.ID
	}
	s.st.orders[o.ID] = o
	s.st.orderItems[o.ID] = items
	return &o
}

// UpdateOrder sửa order trực tiếp, không ghi history
func (s *Store) UpdateOrder(id uuid.UUID, fn func(o *orderModel.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.st.orders[id]
	fn(&o)
	s.st.orders[id] = o
}

func (s *Store) Order(id uuid.UUID) orderModel.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.orders[id]
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders)
}

func (s *Store) History(orderID uuid.UUID) []orderModel.OrderHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orderModel.OrderHistory(nil), s.st.history[orderID]...)
}

func (s *Store) OrderItems(orderID uuid.UUID) []orderModel.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orderModel.OrderItem(nil), s.st.orderItems[orderID]...)
}

// Logs trả mọi payment log đã commit theo thứ tự ghi
func (s *Store) Logs() []paymentModel.PaymentLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]paymentModel.PaymentLog(nil), s.st.paymentLogs...)
}

// cartOf: caller giữ s.mu
func (s *Store) cartOf(userID uuid.UUID) cartModel.Cart {
	for _, c := range s.st.carts {
		if c.IsOwnedBy(userID) {
			return c
		}
	}
	uid := userID
	c := cartModel.Cart{ID: uuid.New(), UserID: &uid, CreatedAt: s.now()}
	c.UpdatedAt = c.CreatedAt
	s.st.carts[c.ID] = c
	return c
}

// Repository views
func (s *Store) Products() *ProductRepo   { return &ProductRepo{s: s} }
func (s *Store) Addresses() *AddressRepo { return &AddressRepo{s: s} }
func (s *Store) Carts() *CartRepo        { return &CartRepo{s: s} }
func (s *Store) Orders() *OrderRepo      { return &OrderRepo{s: s} }
func (s *Store) PaymentLogs() *PaymentLogRepo {
	return &PaymentLogRepo{s: s}
}
