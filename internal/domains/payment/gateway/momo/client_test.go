package momo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{
		PartnerCode: "PARTNER",
		AccessKey:   "access",
		SecretKey:   "secret",
		Endpoint:    srv.URL,
		RedirectURL: "http://localhost/return",
		IPNURL:      "http://localhost/ipn",
		RequestType: "captureWallet",
		Lang:        "vi",
		Timeout:     time.Second,
	})
}

func TestClient_CreatePayment(t *testing.T) {
	var got createBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/gateway/api/create", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(CreateResponse{
			OrderID:    got.OrderID,
			RequestID:  got.RequestID,
			PayURL:     "https://test-payment.momo.vn/pay/abc",
			ResultCode: 0,
			Message:    "Successful.",
		})
	})

	id := NewInitialID("ORD-20251108-0001", time.Unix(1762600000, 0))
	resp, err := client.CreatePayment(context.Background(), CreateRequest{
		OrderID:   id,
		Amount:    decimal.NewFromInt(250000),
		OrderInfo: "Thanh toan don hang ORD-20251108-0001",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", resp.PayURL)
	assert.Equal(t, "ORD-20251108-0001_1762600000", got.OrderID)
	assert.Equal(t, int64(250000), got.Amount)
	assert.Equal(t, "PARTNER", got.PartnerCode)
	assert.Equal(t, client.sign(client.CreateRawSignature(&got)), got.Signature)
}

func TestClient_CreatePayment_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"resultCode":11007,"message":"Invalid signature."}`))
	})

	_, err := client.CreatePayment(context.Background(), CreateRequest{
		OrderID: NewInitialID("ORD-1", time.Now()),
		Amount:  decimal.NewFromInt(1000),
	})

	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.False(t, IsRetryable(err))
}

func TestClient_ServerErrorIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreatePayment(context.Background(), CreateRequest{
		OrderID: NewInitialID("ORD-1", time.Now()),
		Amount:  decimal.NewFromInt(1000),
	})

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.QueryStatus(context.Background(), NewInitialID("ORD-1", time.Now()))

	assert.ErrorIs(t, err, ErrGatewayTimeout)
	assert.True(t, IsRetryable(err))
}

func TestClient_QueryStatus(t *testing.T) {
	id := NewRetryID("ORD-20251108-0001", time.Unix(1762600000, 0))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/gateway/api/query", r.URL.Path)

		var body queryBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, id.String(), body.OrderID)

		_ = json.NewEncoder(w).Encode(queryResponse{
			PartnerCode: "PARTNER",
			OrderID:     body.OrderID,
			RequestID:   body.RequestID,
			Amount:      250000,
			TransID:     4088878653,
			ResultCode:  0,
			Message:     "Thành công.",
		})
	})

	upd, err := client.QueryStatus(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, SourceQuery, upd.Source)
	assert.Equal(t, id, upd.Result.GatewayOrderID)
	assert.Equal(t, "4088878653", upd.Result.TransID)
	assert.True(t, upd.Result.Succeeded())
	assert.True(t, upd.Result.IsFinal())
}
