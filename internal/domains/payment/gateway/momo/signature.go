package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// =====================================================
// MOMO SIGNATURE GENERATION & VERIFICATION
// =====================================================

// field là một cặp key=value trong raw signature; thứ tự do Momo quy định, không sort
type field struct {
	key   string
	value string
}

func rawSignature(fields ...field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.key+"="+f.value)
	}
	return strings.Join(parts, "&")
}

// Signer ký và verify payload bằng HMAC-SHA256(secretKey), hex encode
type Signer struct {
	accessKey string
	secretKey string
}

func NewSigner(accessKey, secretKey string) *Signer {
	return &Signer{accessKey: accessKey, secretKey: secretKey}
}

func (s *Signer) sign(raw string) string {
	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify so sánh constant-time trên bytes đã decode
func (s *Signer) verify(raw, received string) bool {
	got, err := hex.DecodeString(strings.ToLower(received))
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(s.sign(raw))
	return hmac.Equal(got, want)
}

// CreateRawSignature:
// accessKey&amount&extraData&ipnUrl&orderId&orderInfo&partnerCode&redirectUrl&requestId&requestType
func (s *Signer) CreateRawSignature(req *createBody) string {
	return rawSignature(
		field{"accessKey", s.accessKey},
		field{"amount", strconv.FormatInt(req.Amount, 10)},
		field{"extraData", req.ExtraData},
		field{"ipnUrl", req.IPNURL},
		field{"orderId", req.OrderID},
		field{"orderInfo", req.OrderInfo},
		field{"partnerCode", req.PartnerCode},
		field{"redirectUrl", req.RedirectURL},
		field{"requestId", req.RequestID},
		field{"requestType", req.RequestType},
	)
}

// IPNRawSignature dùng thứ tự field của callback (IPN và return URL giống nhau)
func (s *Signer) IPNRawSignature(ipn *IPN) string {
	return rawSignature(
		field{"accessKey", s.accessKey},
		field{"amount", strconv.FormatInt(ipn.Amount, 10)},
		field{"extraData", ipn.ExtraData},
		field{"message", ipn.Message},
		field{"orderId", ipn.OrderID},
		field{"orderInfo", ipn.OrderInfo},
		field{"orderType", ipn.OrderType},
		field{"partnerCode", ipn.PartnerCode},
		field{"payType", ipn.PayType},
		field{"requestId", ipn.RequestID},
		field{"responseTime", strconv.FormatInt(ipn.ResponseTime, 10)},
		field{"resultCode", strconv.Itoa(ipn.ResultCode)},
		field{"transId", strconv.FormatInt(ipn.TransID, 10)},
	)
}

func (s *Signer) QueryRawSignature(req *queryBody) string {
	return rawSignature(
		field{"accessKey", s.accessKey},
		field{"orderId", req.OrderID},
		field{"partnerCode", req.PartnerCode},
		field{"requestId", req.RequestID},
	)
}

// SignIPN điền Signature cho ipn (dùng bởi mock gateway và tests)
func (s *Signer) SignIPN(ipn *IPN) {
	ipn.Signature = s.sign(s.IPNRawSignature(ipn))
}

// VerifyIPN kiểm tra chữ ký IPN; chỉ IPN hợp lệ mới thành AuthoritativePaymentUpdate
func (s *Signer) VerifyIPN(ipn IPN) (*AuthoritativePaymentUpdate, error) {
	if ipn.Signature == "" || !s.verify(s.IPNRawSignature(&ipn), ipn.Signature) {
		return nil, ErrInvalidSignature
	}

	result, err := ipn.result()
	if err != nil {
		return nil, err
	}
	return &AuthoritativePaymentUpdate{Result: result, Source: SourceIPN}, nil
}

// VerifyReturn parse query string của return URL. Có chữ ký thì chữ ký phải đúng;
// không có chữ ký vẫn được nhận như best-effort update.
func (s *Signer) VerifyReturn(p ReturnParams) (*BestEffortPaymentUpdate, error) {
	upd, err := NewBestEffortUpdate(p)
	if err != nil {
		return nil, err
	}
	if p.Signature == "" {
		return upd, nil
	}

	ipn := p.asIPN()
	if !s.verify(s.IPNRawSignature(&ipn), p.Signature) {
		return nil, ErrInvalidSignature
	}
	upd.Signed = true
	return upd, nil
}
