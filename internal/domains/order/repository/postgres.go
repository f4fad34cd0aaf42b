package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/database"
)

const orderNumberConstraint = "orders_order_number_key"

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

const orderColumns = `
	id, order_number, user_id, customer_email, customer_phone, status_id,
	shipping_address_id, shipping_recipient_name, shipping_phone, shipping_province,
	shipping_district, shipping_ward, shipping_street,
	billing_address_id, billing_recipient_name, billing_phone, billing_province,
	billing_district, billing_ward, billing_street,
	payment_method, payment_status, gateway_order_id, gateway_transaction_id, payment_time,
	shipping_method, tracking_number,
	subtotal, shipping_fee, discount_amount, tax_amount, total_amount, discount_code, promotion_id,
	customer_note, admin_note, cancellation_reason,
	shipped_at, delivered_at, cancelled_at, created_at, updated_at, version`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var statusID int
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerEmail, &o.CustomerPhone, &statusID,
		&o.ShippingAddressID, &o.ShippingAddress.RecipientName, &o.ShippingAddress.Phone, &o.ShippingAddress.Province,
		&o.ShippingAddress.District, &o.ShippingAddress.Ward, &o.ShippingAddress.Street,
		&o.BillingAddressID, &o.BillingAddress.RecipientName, &o.BillingAddress.Phone, &o.BillingAddress.Province,
		&o.BillingAddress.District, &o.BillingAddress.Ward, &o.BillingAddress.Street,
		&o.PaymentMethod, &o.PaymentStatus, &o.GatewayOrderID, &o.GatewayTransactionID, &o.PaymentTime,
		&o.ShippingMethod, &o.TrackingNumber,
		&o.Subtotal, &o.ShippingFee, &o.DiscountAmount, &o.TaxAmount, &o.TotalAmount, &o.DiscountCode, &o.PromotionID,
		&o.CustomerNote, &o.AdminNote, &o.CancellationReason,
		&o.ShippedAt, &o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt, &o.Version,
	)
	if err != nil {
		return nil, err
	}
	o.StatusID = model.OrderStatus(statusID)
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrOrderNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// =====================================================
// CREATE ORDER
// =====================================================

func (r *postgresOrderRepository) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		INSERT INTO orders (
			order_number, user_id, customer_email, customer_phone, status_id,
			shipping_address_id, shipping_recipient_name, shipping_phone, shipping_province,
			shipping_district, shipping_ward, shipping_street,
			billing_address_id, billing_recipient_name, billing_phone, billing_province,
			billing_district, billing_ward, billing_street,
			payment_method, payment_status, shipping_method,
			subtotal, shipping_fee, discount_amount, tax_amount, total_amount, discount_code, promotion_id,
			customer_note, created_at, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22,
			$23, $24, $25, $26, $27, $28, $29,
			$30, NOW(), NOW(), 1
		)
		RETURNING id, created_at, updated_at, version
	`

	err := tx.QueryRow(ctx, query,
		o.OrderNumber, o.UserID, o.CustomerEmail, o.CustomerPhone, int(o.StatusID),
		o.ShippingAddressID, o.ShippingAddress.RecipientName, o.ShippingAddress.Phone, o.ShippingAddress.Province,
		o.ShippingAddress.District, o.ShippingAddress.Ward, o.ShippingAddress.Street,
		o.BillingAddressID, o.BillingAddress.RecipientName, o.BillingAddress.Phone, o.BillingAddress.Province,
		o.BillingAddress.District, o.BillingAddress.Ward, o.BillingAddress.Street,
		o.PaymentMethod, o.PaymentStatus, o.ShippingMethod,
		o.Subtotal, o.ShippingFee, o.DiscountAmount, o.TaxAmount, o.TotalAmount, o.DiscountCode, o.PromotionID,
		o.CustomerNote,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.Version)
	if err != nil {
		if database.IsUniqueViolation(err, orderNumberConstraint) {
			return model.ErrOrderNumberConflict
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *postgresOrderRepository) CreateOrderItemWithTx(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	query := `
		INSERT INTO order_items (
			order_id, product_id, product_name, product_sku, product_image_url,
			unit_price, quantity, subtotal, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductSKU, item.ProductImageURL,
		item.UnitPrice, item.Quantity, item.Subtotal,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *postgresOrderRepository) CreateHistoryWithTx(ctx context.Context, tx pgx.Tx, h *model.OrderHistory) error {
	query := `
		INSERT INTO order_history (order_id, status_id, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, h.OrderID, int(h.StatusID), h.Note, h.ActorID).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order history: %w", err)
	}
	return nil
}

// =====================================================
// GET ORDER
// =====================================================

func (r *postgresOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err != nil {
		return nil, notFoundOr(err, "failed to get order")
	}
	return o, nil
}

func (r *postgresOrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if err != nil {
		return nil, notFoundOr(err, "failed to get order by number")
	}
	return o, nil
}

func (r *postgresOrderRepository) GetByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, orderID))
	if err != nil {
		return nil, notFoundOr(err, "failed to lock order")
	}
	return o, nil
}

func (r *postgresOrderRepository) GetByNumberForUpdateWithTx(ctx context.Context, tx pgx.Tx, orderNumber string) (*model.Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1 FOR UPDATE`, orderNumber))
	if err != nil {
		return nil, notFoundOr(err, "failed to lock order by number")
	}
	return o, nil
}

// =====================================================
// ORDER ITEMS & HISTORY
// =====================================================

const orderItemColumns = `id, order_id, product_id, product_name, product_sku, product_image_url,
	unit_price, quantity, subtotal, created_at`

func (r *postgresOrderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return scanOrderItems(rows)
}

func (r *postgresOrderRepository) GetItemsWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := tx.Query(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return scanOrderItems(rows)
}

func scanOrderItems(rows pgx.Rows) ([]model.OrderItem, error) {
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductSKU, &item.ProductImageURL,
			&item.UnitPrice, &item.Quantity, &item.Subtotal, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

func (r *postgresOrderRepository) GetHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderHistory, error) {
	query := `
		SELECT id, order_id, status_id, note, actor_id, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}
	defer rows.Close()

	history := make([]model.OrderHistory, 0)
	for rows.Next() {
		var h model.OrderHistory
		var statusID int
		if err := rows.Scan(&h.ID, &h.OrderID, &statusID, &h.Note, &h.ActorID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order history: %w", err)
		}
		h.StatusID = model.OrderStatus(statusID)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order history: %w", err)
	}
	return history, nil
}

func (r *postgresOrderRepository) CountItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int)
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT order_id, COALESCE(SUM(quantity), 0)
		FROM order_items
		WHERE order_id = ANY($1)
		GROUP BY order_id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count order items by order ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var oid uuid.UUID
		var count int
		if err := rows.Scan(&oid, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order items count: %w", err)
		}
		result[oid] = count
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating order items count: %w", rows.Err())
	}

	return result, nil
}

// =====================================================
// UPDATE ORDER
// =====================================================

// UpdateWithTx build SET clause động từ các field khác nil
func (r *postgresOrderRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, version int, upd *model.OrderUpdate) error {
	setClauses := []string{
		"version = version + 1",
		"updated_at = NOW()",
	}
	args := []interface{}{orderID, version}

	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.StatusID != nil {
		add("status_id", int(*upd.StatusID))
	}
	if upd.PaymentStatus != nil {
		add("payment_status", *upd.PaymentStatus)
	}
	if upd.GatewayOrderID != nil {
		add("gateway_order_id", *upd.GatewayOrderID)
	}
	if upd.GatewayTransactionID != nil {
		add("gateway_transaction_id", *upd.GatewayTransactionID)
	}
	if upd.PaymentTime != nil {
		add("payment_time", *upd.PaymentTime)
	}
	if upd.TrackingNumber != nil {
		add("tracking_number", *upd.TrackingNumber)
	}
	if upd.AdminNote != nil {
		add("admin_note", *upd.AdminNote)
	}
	if upd.CancellationReason != nil {
		add("cancellation_reason", *upd.CancellationReason)
	}
	if upd.ShippedAt != nil {
		add("shipped_at", *upd.ShippedAt)
	}
	if upd.DeliveredAt != nil {
		add("delivered_at", *upd.DeliveredAt)
	}
	if upd.CancelledAt != nil {
		add("cancelled_at", *upd.CancelledAt)
	}

	query := fmt.Sprintf(`
		UPDATE orders
		SET %s
		WHERE id = $1 AND version = $2
	`, strings.Join(setClauses, ", "))

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrVersionMismatch
	}

	return nil
}

// =====================================================
// LIST ORDERS
// =====================================================

func (r *postgresOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, req model.ListOrdersRequest) ([]model.Order, int, error) {
	var where utils.WhereBuilder
	where.Add("user_id = ?", userID)
	if req.StatusID != 0 {
		where.Add("status_id = ?", req.StatusID)
	}
	return r.list(ctx, &where, req)
}

func (r *postgresOrderRepository) ListAll(ctx context.Context, req model.ListOrdersRequest) ([]model.Order, int, error) {
	var where utils.WhereBuilder
	if req.StatusID != 0 {
		where.Add("status_id = ?", req.StatusID)
	}
	return r.list(ctx, &where, req)
}

func (r *postgresOrderRepository) list(ctx context.Context, where *utils.WhereBuilder, req model.ListOrdersRequest) ([]model.Order, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM orders ` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	whereSQL := where.SQL()
	limit := where.Next(req.Limit)
	offset := where.Next(req.Offset())
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		orderColumns, whereSQL, limit, offset)

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresOrderRepository) ListAwaitingPayment(ctx context.Context, paymentMethod string, createdBefore time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE payment_method = $1
			AND payment_status IN ('pending', 'failed')
			AND status_id NOT IN (6, 7)
			AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, paymentMethod, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders awaiting payment: %w", err)
	}
	return scanOrders(rows)
}
