package momo

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature   = errors.New("invalid momo signature")
	ErrGatewayTimeout     = errors.New("momo gateway timeout")
	ErrGatewayUnavailable = errors.New("momo gateway unavailable")
	ErrGatewayRejected    = errors.New("momo rejected the request")
)

// IsRetryable: lỗi mạng/timeout/5xx, client có thể thử lại
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayTimeout) || errors.Is(err, ErrGatewayUnavailable)
}

// =====================================================
// CREATE PAYMENT
// =====================================================

type CreateRequest struct {
	OrderID   GatewayOrderID
	Amount    decimal.Decimal // VND, Momo chỉ nhận số nguyên
	OrderInfo string
	ExtraData string
}

type CreateResponse struct {
	OrderID    string `json:"orderId"`
	RequestID  string `json:"requestId"`
	PayURL     string `json:"payUrl"`
	Deeplink   string `json:"deeplink,omitempty"`
	QRCodeURL  string `json:"qrCodeUrl,omitempty"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// createBody là JSON gửi tới /v2/gateway/api/create
type createBody struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey,omitempty"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

// =====================================================
// QUERY
// =====================================================

type queryBody struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type queryResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	ExtraData    string `json:"extraData"`
	Amount       int64  `json:"amount"`
	TransID      int64  `json:"transId"`
	PayType      string `json:"payType"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	ResponseTime int64  `json:"responseTime"`
}

// =====================================================
// CALLBACKS
// =====================================================

// IPN là body JSON Momo POST tới ipnUrl
type IPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

func (ipn *IPN) result() (PaymentResult, error) {
	id, err := ParseGatewayOrderID(ipn.OrderID)
	if err != nil {
		return PaymentResult{}, err
	}
	return PaymentResult{
		GatewayOrderID: id,
		TransID:        formatTransID(ipn.TransID),
		ResultCode:     ipn.ResultCode,
		Message:        ipn.Message,
		Amount:         decimalFromVND(ipn.Amount),
		PayType:        ipn.PayType,
	}, nil
}

// ReturnParams là query string khi Momo redirect browser về redirectUrl
type ReturnParams struct {
	PartnerCode  string `form:"partnerCode"`
	OrderID      string `form:"orderId" binding:"required"`
	RequestID    string `form:"requestId"`
	Amount       int64  `form:"amount"`
	OrderInfo    string `form:"orderInfo"`
	OrderType    string `form:"orderType"`
	TransID      int64  `form:"transId"`
	ResultCode   int    `form:"resultCode"`
	Message      string `form:"message"`
	PayType      string `form:"payType"`
	ResponseTime int64  `form:"responseTime"`
	ExtraData    string `form:"extraData"`
	Signature    string `form:"signature"`
}

// asIPN: return URL ký cùng bộ field với IPN
func (p ReturnParams) asIPN() IPN {
	return IPN{
		PartnerCode:  p.PartnerCode,
		OrderID:      p.OrderID,
		RequestID:    p.RequestID,
		Amount:       p.Amount,
		OrderInfo:    p.OrderInfo,
		OrderType:    p.OrderType,
		TransID:      p.TransID,
		ResultCode:   p.ResultCode,
		Message:      p.Message,
		PayType:      p.PayType,
		ResponseTime: p.ResponseTime,
		ExtraData:    p.ExtraData,
		Signature:    p.Signature,
	}
}

func formatTransID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
