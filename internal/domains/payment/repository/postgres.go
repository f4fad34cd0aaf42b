package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netshop-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT LOG REPOSITORY IMPLEMENTATION
// =====================================================
type paymentLogRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentLogRepository(pool *pgxpool.Pool) PaymentLogRepository {
	return &paymentLogRepository{pool: pool}
}

// execer là phần chung của pool và tx
type execer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const insertLogQuery = `
	INSERT INTO payment_logs (
		order_id, gateway, gateway_order_id, source, result_code, trans_id,
		amount, signature_valid, outcome, message, payload
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	RETURNING id, created_at
`

func (r *paymentLogRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	return insertLog(ctx, r.pool, log)
}

func (r *paymentLogRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, log *model.PaymentLog) error {
	return insertLog(ctx, tx, log)
}

func insertLog(ctx context.Context, db execer, log *model.PaymentLog) error {
	// Serialize payload to JSONB
	payloadJSON, err := json.Marshal(log.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = db.QueryRow(ctx, insertLogQuery,
		log.OrderID,
		log.Gateway,
		log.GatewayOrderID,
		log.Source,
		log.ResultCode,
		log.TransID,
		log.Amount,
		log.SignatureValid,
		log.Outcome,
		log.Message,
		payloadJSON,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment log: %w", err)
	}
	return nil
}

// =====================================================
// IDEMPOTENCY CHECKING
// =====================================================

func (r *paymentLogRepository) HasAuthoritativeWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM payment_logs
			WHERE order_id = $1
			AND outcome = 'applied'
			AND (source = 'query' OR (source = 'ipn' AND signature_valid = true))
		)
	`

	var exists bool
	if err := tx.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check authoritative update: %w", err)
	}
	return exists, nil
}

// =====================================================
// QUERY
// =====================================================

func (r *paymentLogRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.PaymentLog, error) {
	query := `
		SELECT id, order_id, gateway, gateway_order_id, source, result_code, trans_id,
		       amount, signature_valid, outcome, message, payload, created_at
		FROM payment_logs
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.PaymentLog, 0)
	for rows.Next() {
		var (
			l       model.PaymentLog
			payload []byte
		)
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.Gateway, &l.GatewayOrderID, &l.Source, &l.ResultCode, &l.TransID,
			&l.Amount, &l.SignatureValid, &l.Outcome, &l.Message, &payload, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment log: %w", err)
		}
		if len(payload) > 0 {
			var body map[string]interface{}
			if err := json.Unmarshal(payload, &body); err == nil {
				l.Payload = body
			}
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
