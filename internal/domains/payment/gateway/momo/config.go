package momo

import (
	"time"

	"netshop-backend/internal/config"
)

// =====================================================
// MOMO CONFIGURATION
// =====================================================

type Config struct {
	PartnerCode string // Partner code (provided by Momo)
	AccessKey   string
	SecretKey   string // HMAC-SHA256 key
	Endpoint    string // Momo API base URL
	RedirectURL string // browser return target
	IPNURL      string // server-to-server notification target
	RequestType string
	Lang        string
	Timeout     time.Duration
}

// NewConfig builds gateway config from app config
func NewConfig(cfg config.MomoConfig) *Config {
	c := &Config{
		PartnerCode: cfg.PartnerCode,
		AccessKey:   cfg.AccessKey,
		SecretKey:   cfg.SecretKey,
		Endpoint:    cfg.Endpoint,
		RedirectURL: cfg.RedirectURL,
		IPNURL:      cfg.IPNURL,
		RequestType: cfg.RequestType,
		Lang:        cfg.Lang,
		Timeout:     cfg.Timeout,
	}
	if c.RequestType == "" {
		c.RequestType = "captureWallet"
	}
	if c.Lang == "" {
		c.Lang = "vi"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

func (c *Config) CreateURL() string {
	return c.Endpoint + "/v2/gateway/api/create"
}

func (c *Config) QueryURL() string {
	return c.Endpoint + "/v2/gateway/api/query"
}

// =====================================================
// MOMO CONSTANTS
// =====================================================

const (
	ResultCodeSuccess           = 0
	ResultCodePendingConfirm    = 1000 // user chưa xác nhận thanh toán
	ResultCodeInsufficientFunds = 1001
	ResultCodeTimeout           = 1002
	ResultCodeUnavailable       = 1003
	ResultCodeInvalidRequest    = 1004
	ResultCodeTransactionFailed = 1005
	ResultCodeUserDenied        = 1006
	ResultCodeInvalidSignature  = 11007
	ResultCodeProcessing        = 7000
	ResultCodeProcessingBank    = 7002
	ResultCodePaidAuthorized    = 9000 // authorized, chờ capture
)

// IsFinal: false khi giao dịch vẫn đang chờ user hoặc ngân hàng
func IsFinal(code int) bool {
	switch code {
	case ResultCodePendingConfirm, ResultCodeProcessing, ResultCodeProcessingBank, ResultCodePaidAuthorized:
		return false
	}
	return true
}

// GetResultMessage returns Vietnamese message for result code
func GetResultMessage(code int) string {
	messages := map[int]string{
		ResultCodeSuccess:           "Giao dịch thành công",
		ResultCodePendingConfirm:    "Giao dịch đang chờ người dùng xác nhận",
		ResultCodeInsufficientFunds: "Số dư tài khoản không đủ",
		ResultCodeTimeout:           "Giao dịch hết hạn",
		ResultCodeUnavailable:       "Phương thức thanh toán không khả dụng",
		ResultCodeInvalidRequest:    "Yêu cầu không hợp lệ",
		ResultCodeTransactionFailed: "Giao dịch thất bại",
		ResultCodeUserDenied:        "Người dùng từ chối thanh toán",
		ResultCodeInvalidSignature:  "Chữ ký không hợp lệ",
		ResultCodeProcessing:        "Giao dịch đang được xử lý",
		ResultCodeProcessingBank:    "Giao dịch đang được ngân hàng xử lý",
		ResultCodePaidAuthorized:    "Giao dịch đã được xác nhận",
	}

	if msg, exists := messages[code]; exists {
		return msg
	}
	return "Lỗi không xác định"
}
