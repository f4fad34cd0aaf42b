package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// MOMO CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	*Signer
	config     *Config
	httpClient *http.Client
}

// NewClient creates new Momo client
func NewClient(config *Config) *Client {
	return &Client{
		Signer: NewSigner(config.AccessKey, config.SecretKey),
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// =====================================================
// CREATE PAYMENT
// =====================================================

// CreatePayment ký request và gọi /v2/gateway/api/create, trả payUrl
func (c *Client) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	body := &createBody{
		PartnerCode: c.config.PartnerCode,
		AccessKey:   c.config.AccessKey,
		RequestID:   uuid.NewString(),
		Amount:      req.Amount.Round(0).IntPart(),
		OrderID:     req.OrderID.String(),
		OrderInfo:   req.OrderInfo,
		RedirectURL: c.config.RedirectURL,
		IPNURL:      c.config.IPNURL,
		RequestType: c.config.RequestType,
		ExtraData:   req.ExtraData,
		Lang:        c.config.Lang,
	}
	body.Signature = c.sign(c.CreateRawSignature(body))

	var resp CreateResponse
	if err := c.post(ctx, c.config.CreateURL(), body, &resp); err != nil {
		return nil, err
	}

	if resp.ResultCode != ResultCodeSuccess {
		return nil, fmt.Errorf("%w: resultCode=%d message=%s", ErrGatewayRejected, resp.ResultCode, resp.Message)
	}
	if resp.PayURL == "" {
		return nil, fmt.Errorf("%w: payUrl not found in response", ErrGatewayRejected)
	}

	return &resp, nil
}

// =====================================================
// QUERY TRANSACTION STATUS
// =====================================================

// QueryStatus hỏi Momo trạng thái của một gateway order id.
// Kết quả là authoritative vì server tự gọi qua kênh đã ký.
func (c *Client) QueryStatus(ctx context.Context, id GatewayOrderID) (*AuthoritativePaymentUpdate, error) {
	body := &queryBody{
		PartnerCode: c.config.PartnerCode,
		RequestID:   uuid.NewString(),
		OrderID:     id.String(),
		Lang:        c.config.Lang,
	}
	body.Signature = c.sign(c.QueryRawSignature(body))

	var resp queryResponse
	if err := c.post(ctx, c.config.QueryURL(), body, &resp); err != nil {
		return nil, err
	}

	if resp.OrderID != "" && resp.OrderID != id.String() {
		return nil, fmt.Errorf("%w: query returned orderId %s for %s", ErrGatewayRejected, resp.OrderID, id)
	}

	return &AuthoritativePaymentUpdate{
		Source: SourceQuery,
		Result: PaymentResult{
			GatewayOrderID: id,
			TransID:        formatTransID(resp.TransID),
			ResultCode:     resp.ResultCode,
			Message:        resp.Message,
			Amount:         decimalFromVND(resp.Amount),
			PayType:        resp.PayType,
		},
	}, nil
}

// =====================================================
// HTTP
// =====================================================

func (c *Client) post(ctx context.Context, url string, in interface{}, out interface{}) error {
	bodyJSON, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyJSON))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w after %s: %v", ErrGatewayTimeout, time.Since(start).Round(time.Millisecond), err)
		}
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: HTTP %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	// Momo trả 4xx kèm JSON resultCode; decode để lấy message
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: HTTP %d, invalid JSON: %v", ErrGatewayRejected, resp.StatusCode, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
