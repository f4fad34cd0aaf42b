package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addressModel "netshop-backend/internal/domains/address/model"
	cartModel "netshop-backend/internal/domains/cart/model"
	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/shared/middleware"
)

// stubService chỉ override các method handler test cần
type stubService struct {
	service.OrderService
	createErr error
	cancelErr error
	gotCreate model.CreateOrderRequest
}

func (s *stubService) CreateOrder(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	s.gotCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &model.CreateOrderResponse{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20251108-0001",
		StatusID:    model.StatusPending,
		Status:      model.StatusPending.String(),
		TotalAmount: decimal.NewFromInt(250000),
	}, nil
}

func (s *stubService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID, req model.CancelOrderRequest) (*model.OrderDetail, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &model.OrderDetail{}, nil
}

func newRouter(svc service.OrderService, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewOrderHandler(svc)
	if userID != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, *userID)
			c.Set(middleware.EmailKey, "buyer@example.com")
			c.Next()
		})
	}
	r.POST("/orders", h.CreateOrder)
	r.PATCH("/orders/:id/cancel", h.CancelOrder)
	return r
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Details []json.RawMessage `json:"details"`
	} `json:"error"`
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBody() string {
	return fmt.Sprintf(`{"shipping_address_id":%q,"payment_method":"cod","shipping_method":"standard"}`, uuid.NewString())
}

func TestCreateOrder_Created(t *testing.T) {
	userID := uuid.New()
	svc := &stubService{}

	w := send(newRouter(svc, &userID), http.MethodPost, "/orders", createBody())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ORD-20251108-0001")
	assert.Equal(t, "buyer@example.com", svc.gotCreate.CustomerEmail)
	assert.Equal(t, model.PaymentMethodCOD, svc.gotCreate.PaymentMethod)
}

func TestCreateOrder_ItemizedCartErrors(t *testing.T) {
	userID := uuid.New()
	available := 1
	itemErrs := []cartModel.ItemError{
		{ProductID: uuid.New(), Code: cartModel.ItemErrInsufficientStock, Message: "only 1 left", Requested: 3, AvailableStock: &available},
		{ProductID: uuid.New(), Code: cartModel.ItemErrPriceChanged, Message: "price changed"},
	}
	svc := &stubService{
		createErr: model.NewOrderError(model.ErrCodeCartInvalid, "Cart contains invalid items", model.ErrCartInvalid).
			WithDetails(itemErrs),
	}

	w := send(newRouter(svc, &userID), http.MethodPost, "/orders", createBody())

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, model.ErrCodeCartInvalid, body.Error.Code)
	require.Len(t, body.Error.Details, 2)
	assert.Contains(t, string(body.Error.Details[0]), cartModel.ItemErrInsufficientStock)
	assert.Contains(t, string(body.Error.Details[1]), cartModel.ItemErrPriceChanged)
}

func TestCreateOrder_ErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		want     int
		wantCode string
	}{
		{
			name:     "empty cart",
			err:      model.NewOrderError(model.ErrCodeCartEmpty, "Cart is empty", model.ErrCartEmpty),
			want:     http.StatusBadRequest,
			wantCode: model.ErrCodeCartEmpty,
		},
		{
			name:     "stock taken inside the transaction",
			err:      model.NewOrderError(model.ErrCodeInsufficientStock, "Insufficient stock", nil),
			want:     http.StatusBadRequest,
			wantCode: model.ErrCodeInsufficientStock,
		},
		{
			name:     "address not found",
			err:      model.NewOrderError(model.ErrCodeAddressNotFound, "Address not found", addressModel.ErrAddressNotFound),
			want:     http.StatusNotFound,
			wantCode: model.ErrCodeAddressNotFound,
		},
		{
			name: "malformed json",
			body: `{"shipping_address_id":`,
			want: http.StatusBadRequest,
		},
		{
			name: "infrastructure failure",
			err:  fmt.Errorf("db down"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			body := tt.body
			if body == "" {
				body = createBody()
			}

			w := send(newRouter(&stubService{createErr: tt.err}, &userID), http.MethodPost, "/orders", body)

			assert.Equal(t, tt.want, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	w := send(newRouter(&stubService{}, nil), http.MethodPost, "/orders", createBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancelOrder_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"cancelled", "/orders/" + uuid.NewString() + "/cancel", nil, http.StatusOK},
		{"not owner", "/orders/" + uuid.NewString() + "/cancel",
			model.NewOrderError(model.ErrCodeForbidden, "Order does not belong to you", model.ErrForbidden), http.StatusForbidden},
		{"already shipped", "/orders/" + uuid.NewString() + "/cancel",
			model.NewOrderError(model.ErrCodeOrderCannotCancel, "Please contact support", model.ErrOrderCannotCancel), http.StatusUnprocessableEntity},
		{"unknown order", "/orders/" + uuid.NewString() + "/cancel", model.ErrOrderNotFound, http.StatusNotFound},
		{"bad id", "/orders/42/cancel", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			w := send(newRouter(&stubService{cancelErr: tt.err}, &userID), http.MethodPatch, tt.path, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
