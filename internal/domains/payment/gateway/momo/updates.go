package momo

import "github.com/shopspring/decimal"

type Source string

const (
	SourceCreate Source = "create"
	SourceIPN    Source = "ipn"
	SourceQuery  Source = "query"
	SourceReturn Source = "return"
)

// PaymentResult là kết quả một lần thanh toán do Momo báo về
type PaymentResult struct {
	GatewayOrderID GatewayOrderID
	TransID        string
	ResultCode     int
	Message        string
	Amount         decimal.Decimal
	PayType        string
}

func (r PaymentResult) Succeeded() bool {
	return r.ResultCode == ResultCodeSuccess
}

func (r PaymentResult) IsFinal() bool {
	return IsFinal(r.ResultCode)
}

// AuthoritativePaymentUpdate đến từ nguồn đã xác thực: IPN đúng chữ ký hoặc
// query do server tự gọi. Luôn được áp dụng (trừ khi order đã paid).
type AuthoritativePaymentUpdate struct {
	Result PaymentResult
	Source Source
}

// BestEffortPaymentUpdate đến từ redirect của browser.
// Chỉ áp dụng cho attempt hiện tại của order và khi order chưa có authoritative update nào.
// Signed = true khi query string mang chữ ký hợp lệ.
type BestEffortPaymentUpdate struct {
	Result PaymentResult
	Signed bool
}

func NewBestEffortUpdate(p ReturnParams) (*BestEffortPaymentUpdate, error) {
	id, err := ParseGatewayOrderID(p.OrderID)
	if err != nil {
		return nil, err
	}
	return &BestEffortPaymentUpdate{Result: PaymentResult{
		GatewayOrderID: id,
		TransID:        formatTransID(p.TransID),
		ResultCode:     p.ResultCode,
		Message:        p.Message,
		Amount:         decimalFromVND(p.Amount),
		PayType:        p.PayType,
	}}, nil
}

func decimalFromVND(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}
