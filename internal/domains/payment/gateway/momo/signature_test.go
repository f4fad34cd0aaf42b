package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hmacHex(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSigner_CreateRawSignatureFieldOrder(t *testing.T) {
	s := NewSigner("klm05TvNBzhg7h7j", "secret")
	body := &createBody{
		PartnerCode: "MOMOBKUN20180529",
		RequestID:   "req-1",
		Amount:      250000,
		OrderID:     "ORD-20251108-0001_1762600000",
		OrderInfo:   "Thanh toan don hang ORD-20251108-0001",
		RedirectURL: "http://localhost/return",
		IPNURL:      "http://localhost/ipn",
		RequestType: "captureWallet",
	}

	raw := s.CreateRawSignature(body)

	assert.Equal(t,
		"accessKey=klm05TvNBzhg7h7j&amount=250000&extraData=&ipnUrl=http://localhost/ipn"+
			"&orderId=ORD-20251108-0001_1762600000&orderInfo=Thanh toan don hang ORD-20251108-0001"+
			"&partnerCode=MOMOBKUN20180529&redirectUrl=http://localhost/return&requestId=req-1&requestType=captureWallet",
		raw)
	assert.Equal(t, hmacHex("secret", raw), s.sign(raw))
}

func signedIPN(s *Signer) IPN {
	ipn := IPN{
		PartnerCode:  "MOMOBKUN20180529",
		OrderID:      "ORD-20251108-0001_R1762600000",
		RequestID:    "req-2",
		Amount:       250000,
		OrderInfo:    "Thanh toan",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1762600100000,
	}
	s.SignIPN(&ipn)
	return ipn
}

func TestSigner_VerifyIPN(t *testing.T) {
	s := NewSigner("access", "secret")
	ipn := signedIPN(s)

	upd, err := s.VerifyIPN(ipn)

	require.NoError(t, err)
	assert.Equal(t, SourceIPN, upd.Source)
	assert.Equal(t, "ORD-20251108-0001", upd.Result.GatewayOrderID.OrderNumber)
	assert.Equal(t, AttemptRetry, upd.Result.GatewayOrderID.Kind)
	assert.Equal(t, "4088878653", upd.Result.TransID)
	assert.True(t, upd.Result.Succeeded())
	assert.Equal(t, "250000", upd.Result.Amount.String())
}

func TestSigner_VerifyIPN_UppercaseHexAccepted(t *testing.T) {
	s := NewSigner("access", "secret")
	ipn := signedIPN(s)
	ipn.Signature = strings.ToUpper(ipn.Signature)

	_, err := s.VerifyIPN(ipn)
	assert.NoError(t, err)
}

func TestSigner_VerifyIPN_Rejects(t *testing.T) {
	s := NewSigner("access", "secret")

	tests := []struct {
		name   string
		mutate func(ipn *IPN)
	}{
		{"tampered amount", func(ipn *IPN) { ipn.Amount = 1000 }},
		{"tampered result code", func(ipn *IPN) { ipn.ResultCode = 1006 }},
		{"missing signature", func(ipn *IPN) { ipn.Signature = "" }},
		{"not hex", func(ipn *IPN) { ipn.Signature = "zz" }},
		{"wrong secret", func(ipn *IPN) { NewSigner("access", "other").SignIPN(ipn) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ipn := signedIPN(s)
			tt.mutate(&ipn)

			upd, err := s.VerifyIPN(ipn)
			assert.ErrorIs(t, err, ErrInvalidSignature)
			assert.Nil(t, upd)
		})
	}
}

func TestSigner_VerifyIPN_BadOrderID(t *testing.T) {
	s := NewSigner("access", "secret")
	ipn := signedIPN(s)
	ipn.OrderID = "no-suffix"
	s.SignIPN(&ipn)

	_, err := s.VerifyIPN(ipn)
	assert.ErrorIs(t, err, ErrInvalidGatewayOrderID)
}

func returnOf(ipn IPN) ReturnParams {
	return ReturnParams{
		PartnerCode:  ipn.PartnerCode,
		OrderID:      ipn.OrderID,
		RequestID:    ipn.RequestID,
		Amount:       ipn.Amount,
		OrderInfo:    ipn.OrderInfo,
		OrderType:    ipn.OrderType,
		TransID:      ipn.TransID,
		ResultCode:   ipn.ResultCode,
		Message:      ipn.Message,
		PayType:      ipn.PayType,
		ResponseTime: ipn.ResponseTime,
		ExtraData:    ipn.ExtraData,
		Signature:    ipn.Signature,
	}
}

func TestSigner_VerifyReturn(t *testing.T) {
	s := NewSigner("access", "secret")

	t.Run("signed", func(t *testing.T) {
		upd, err := s.VerifyReturn(returnOf(signedIPN(s)))
		require.NoError(t, err)
		assert.True(t, upd.Signed)
		assert.Equal(t, "ORD-20251108-0001_R1762600000", upd.Result.GatewayOrderID.String())
	})

	t.Run("unsigned stays best effort", func(t *testing.T) {
		p := returnOf(signedIPN(s))
		p.Signature = ""
		upd, err := s.VerifyReturn(p)
		require.NoError(t, err)
		assert.False(t, upd.Signed)
	})

	t.Run("tampered result code", func(t *testing.T) {
		ipn := signedIPN(s)
		ipn.ResultCode = 1006
		s.SignIPN(&ipn)
		p := returnOf(ipn)
		p.ResultCode = 0

		upd, err := s.VerifyReturn(p)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		assert.Nil(t, upd)
	})

	t.Run("bad order id", func(t *testing.T) {
		p := returnOf(signedIPN(s))
		p.OrderID = "no-suffix"
		_, err := s.VerifyReturn(p)
		assert.ErrorIs(t, err, ErrInvalidGatewayOrderID)
	})
}
