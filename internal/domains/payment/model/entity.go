package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome của một lần xử lý callback/query
const (
	OutcomeApplied          = "applied"           // đã cập nhật order
	OutcomeAlreadyProcessed = "already_processed" // order đã paid, bỏ qua
	OutcomeSuperseded       = "superseded"        // best-effort tới sau authoritative update
	OutcomeStale            = "stale"             // kết quả fail của attempt cũ
	OutcomePending          = "pending"           // giao dịch chưa kết thúc
	OutcomeRejected         = "rejected"          // chữ ký sai, order đã đóng, sai số tiền...
	OutcomeCreated          = "created"           // tạo payment URL thành công
)

// =====================================================
// PAYMENT LOG ENTITY
// =====================================================

// PaymentLog ghi lại mọi payload trao đổi với Momo (append-only, dùng cho audit)
type PaymentLog struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	Gateway        string          `json:"gateway"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Source         string          `json:"source"` // create | ipn | return | query
	ResultCode     *int            `json:"result_code,omitempty"`
	TransID        *string         `json:"trans_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	SignatureValid *bool           `json:"signature_valid,omitempty"` // nil = nguồn không ký
	Outcome        string          `json:"outcome"`
	Message        *string         `json:"message,omitempty"`
	Payload        interface{}     `json:"payload,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsAuthoritative: log đến từ IPN hợp lệ hoặc query
func (l *PaymentLog) IsAuthoritative() bool {
	switch l.Source {
	case SourceIPN:
		return l.SignatureValid != nil && *l.SignatureValid
	case SourceQuery:
		return true
	}
	return false
}

const GatewayMomo = "momo"

const (
	SourceCreate = "create"
	SourceIPN    = "ipn"
	SourceReturn = "return"
	SourceQuery  = "query"
)
