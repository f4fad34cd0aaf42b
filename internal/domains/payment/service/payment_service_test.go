package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "netshop-backend/internal/domains/order/model"
	orderService "netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/domains/payment/gateway/mock"
	"netshop-backend/internal/domains/payment/gateway/momo"
	"netshop-backend/internal/domains/payment/model"
	"netshop-backend/internal/shared"
	"netshop-backend/internal/testutil"
)

var fixedNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *testutil.Store
	gateway  *mock.MockMomoGateway
	enqueuer *testutil.RecordingEnqueuer
	cache    *testutil.MemoryCache
	svc      PaymentService

	userID    uuid.UUID
	productID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	f := &fixture{
		store:    store,
		gateway:  mock.NewMockMomoGateway("access", "secret"),
		enqueuer: &testutil.RecordingEnqueuer{},
		cache:    testutil.NewMemoryCache(),
		userID:   uuid.New(),
	}
	f.productID = store.AddProduct("router", 100000, 8).ID

	svc := NewPaymentService(Deps{
		DB:        store,
		OrderRepo: store.Orders(),
		LogRepo:   store.PaymentLogs(),
		Gateway:   f.gateway,
		Machine:   orderService.NewStatusMachine(store.Orders(), store.Products()),
		Enqueuer:  f.enqueuer,
		Cache:     f.cache,
	})
	svc.(*paymentService).now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

// seedMomoOrder: đơn MoMo Pending, total 250000, 2 x router
func (f *fixture) seedMomoOrder(mutate ...func(o *orderModel.Order)) *orderModel.Order {
	o := orderModel.Order{
		OrderNumber:    "ORD-20251108-0001",
		UserID:         f.userID,
		CustomerEmail:  "buyer@example.com",
		StatusID:       orderModel.StatusPending,
		PaymentMethod:  orderModel.PaymentMethodMomo,
		PaymentStatus:  orderModel.PaymentStatusPending,
		ShippingMethod: orderModel.ShippingMethodStandard,
		Subtotal:       decimal.NewFromInt(200000),
		ShippingFee:    decimal.NewFromInt(30000),
		TaxAmount:      decimal.NewFromInt(20000),
		TotalAmount:    decimal.NewFromInt(250000),
	}
	gid := momo.NewInitialID(o.OrderNumber, fixedNow.Add(-time.Minute)).String()
	o.GatewayOrderID = &gid
	for _, m := range mutate {
		m(&o)
	}
	return f.store.SeedOrder(o, orderModel.OrderItem{
		ProductID:   f.productID,
		ProductName: "router",
		UnitPrice:   decimal.NewFromInt(100000),
		Quantity:    2,
		Subtotal:    decimal.NewFromInt(200000),
	})
}

func (f *fixture) ipn(order *orderModel.Order, resultCode int) momo.IPN {
	ipn := momo.IPN{
		PartnerCode:  "PARTNER",
		OrderID:      *order.GatewayOrderID,
		RequestID:    "req-1",
		Amount:       order.TotalAmount.IntPart(),
		OrderInfo:    "Thanh toán đơn hàng " + order.OrderNumber,
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   resultCode,
		Message:      momo.GetResultMessage(resultCode),
		PayType:      "qr",
		ResponseTime: fixedNow.UnixMilli(),
	}
	f.gateway.SignIPN(&ipn)
	return ipn
}

func returnParams(ipn momo.IPN) momo.ReturnParams {
	return momo.ReturnParams{
		PartnerCode: ipn.PartnerCode,
		OrderID:     ipn.OrderID,
		RequestID:   ipn.RequestID,
		Amount:      ipn.Amount,
		TransID:     ipn.TransID,
		ResultCode:  ipn.ResultCode,
		Message:     ipn.Message,
	}
}

// signedReturnParams: redirect giữ nguyên các field và chữ ký của IPN
func signedReturnParams(ipn momo.IPN) momo.ReturnParams {
	p := returnParams(ipn)
	p.OrderInfo = ipn.OrderInfo
	p.OrderType = ipn.OrderType
	p.PayType = ipn.PayType
	p.ResponseTime = ipn.ResponseTime
	p.ExtraData = ipn.ExtraData
	p.Signature = ipn.Signature
	return p
}

func requirePaymentError(t *testing.T, err error, code string) {
	t.Helper()
	var payErr *model.PaymentError
	require.True(t, errors.As(err, &payErr), "expected PaymentError, got %v", err)
	require.Equal(t, code, payErr.Code)
}

func requireOrderError(t *testing.T, err error, code string) {
	t.Helper()
	var orderErr *orderModel.OrderError
	require.True(t, errors.As(err, &orderErr), "expected OrderError, got %v", err)
	require.Equal(t, code, orderErr.Code)
}

// =====================================================
// CREATE / RETRY
// =====================================================

func TestStartPayment_StoresInitialGatewayID(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder(func(o *orderModel.Order) { o.GatewayOrderID = nil })

	payURL, err := f.svc.StartPayment(context.Background(), order)

	require.NoError(t, err)
	assert.Contains(t, payURL, "mock-momo")

	req, ok := f.gateway.LastCreated()
	require.True(t, ok)
	assert.Equal(t, momo.AttemptInitial, req.OrderID.Kind)
	assert.Equal(t, "ORD-20251108-0001", req.OrderID.OrderNumber)
	assert.True(t, decimal.NewFromInt(250000).Equal(req.Amount))

	stored := f.store.Order(order.ID)
	require.NotNil(t, stored.GatewayOrderID)
	assert.Equal(t, "ORD-20251108-0001_1762603200", *stored.GatewayOrderID)
	assert.Equal(t, stored.GatewayOrderID, order.GatewayOrderID)

	logs := f.store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.SourceCreate, logs[0].Source)
	assert.Equal(t, model.OutcomeCreated, logs[0].Outcome)
}

func TestStartPayment_GatewayTimeoutIsRetryable(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	f.gateway.CreateErr = fmt.Errorf("%w: deadline", momo.ErrGatewayTimeout)

	_, err := f.svc.StartPayment(context.Background(), order)

	requirePaymentError(t, err, model.ErrCodeGatewayTimeout)
	assert.Equal(t, model.OutcomeRejected, f.store.Logs()[0].Outcome)
}

func TestRetryPayment_NewRetryIDSameOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder(func(o *orderModel.Order) { o.PaymentStatus = orderModel.PaymentStatusFailed })

	resp, err := f.svc.RetryPayment(context.Background(), order.ID, f.userID)

	require.NoError(t, err)
	assert.Equal(t, "ORD-20251108-0001_R1762603200", resp.GatewayOrderID)
	assert.NotEmpty(t, resp.PayURL)
	assert.Equal(t, 1, f.store.OrderCount())
	assert.Equal(t, resp.GatewayOrderID, *f.store.Order(order.ID).GatewayOrderID)
}

func TestRetryPayment_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *orderModel.Order)
		user   func(f *fixture) uuid.UUID
		code   string
	}{
		{"not owner", nil, func(f *fixture) uuid.UUID { return uuid.New() }, orderModel.ErrCodeForbidden},
		{"already paid", func(o *orderModel.Order) { o.PaymentStatus = orderModel.PaymentStatusPaid }, nil, orderModel.ErrCodePaymentNotRetryable},
		{"cod order", func(o *orderModel.Order) { o.PaymentMethod = orderModel.PaymentMethodCOD }, nil, orderModel.ErrCodePaymentNotRetryable},
		{"cancelled", func(o *orderModel.Order) { o.StatusID = orderModel.StatusCancelled }, nil, orderModel.ErrCodePaymentNotRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var mutators []func(o *orderModel.Order)
			if tt.mutate != nil {
				mutators = append(mutators, tt.mutate)
			}
			order := f.seedMomoOrder(mutators...)
			userID := f.userID
			if tt.user != nil {
				userID = tt.user(f)
			}

			_, err := f.svc.RetryPayment(context.Background(), order.ID, userID)

			requireOrderError(t, err, tt.code)
			assert.Empty(t, f.gateway.Created)
		})
	}
}

// =====================================================
// IPN
// =====================================================

func TestHandleIPN_Success(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	key := orderService.DetailCacheKey(order.ID)
	require.NoError(t, f.cache.Set(context.Background(), key, order, time.Minute))

	err := f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeSuccess))

	require.NoError(t, err)
	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.StatusConfirmed, got.StatusID)
	assert.Equal(t, orderModel.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentTime)
	assert.Equal(t, fixedNow, *got.PaymentTime)
	require.NotNil(t, got.GatewayTransactionID)
	assert.Equal(t, "4088878653", *got.GatewayTransactionID)

	history := f.store.History(order.ID)
	require.Len(t, history, 1)
	assert.Equal(t, orderModel.StatusConfirmed, history[0].StatusID)

	assert.Equal(t, []string{shared.TypeSendPaymentSuccess}, f.enqueuer.Types())
	assert.False(t, f.cache.Has(key))
}

func TestHandleIPN_Idempotent(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)

	require.NoError(t, f.svc.HandleIPN(context.Background(), ipn))
	once := f.store.Order(order.ID)
	stockOnce := f.store.Product(f.productID).StockQuantity

	require.NoError(t, f.svc.HandleIPN(context.Background(), ipn))
	twice := f.store.Order(order.ID)

	assert.Equal(t, once.PaymentStatus, twice.PaymentStatus)
	assert.Equal(t, once.StatusID, twice.StatusID)
	assert.Equal(t, once.Version, twice.Version)
	assert.Equal(t, stockOnce, f.store.Product(f.productID).StockQuantity)
	assert.Len(t, f.store.History(order.ID), 1)
	assert.Len(t, f.enqueuer.Tasks, 1)

	logs := f.store.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, model.OutcomeApplied, logs[0].Outcome)
	assert.Equal(t, model.OutcomeAlreadyProcessed, logs[1].Outcome)
}

func TestHandleIPN_InvalidSignature(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)
	ipn.Amount = 1000 // giả mạo số tiền

	err := f.svc.HandleIPN(context.Background(), ipn)

	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.StatusPending, got.StatusID)
	assert.Equal(t, orderModel.PaymentStatusPending, got.PaymentStatus)
	assert.Empty(t, f.store.History(order.ID))

	logs := f.store.Logs()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].SignatureValid)
	assert.False(t, *logs[0].SignatureValid)
	assert.Nil(t, logs[0].OrderID)
}

func TestHandleIPN_FailureKeepsStatus(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()

	err := f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeUserDenied))

	require.NoError(t, err)
	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.StatusPending, got.StatusID)
	assert.Equal(t, orderModel.PaymentStatusFailed, got.PaymentStatus)
	assert.Nil(t, got.PaymentTime)

	history := f.store.History(order.ID)
	require.Len(t, history, 1)
	assert.Equal(t, orderModel.StatusPending, history[0].StatusID)
	assert.Contains(t, *history[0].Note, "resultCode=1006")
	assert.Empty(t, f.enqueuer.Tasks)
}

func TestHandleIPN_CancelledOrderRejected(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder(func(o *orderModel.Order) { o.StatusID = orderModel.StatusCancelled })

	err := f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeSuccess))

	requirePaymentError(t, err, model.ErrCodeOrderClosed)
	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.StatusCancelled, got.StatusID)
	assert.Equal(t, orderModel.PaymentStatusPending, got.PaymentStatus)
	assert.Empty(t, f.store.History(order.ID))
	assert.Equal(t, model.OutcomeRejected, f.store.Logs()[0].Outcome)
}

func TestHandleIPN_AmountMismatch(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)
	ipn.Amount = 200000
	f.gateway.SignIPN(&ipn)

	err := f.svc.HandleIPN(context.Background(), ipn)

	requirePaymentError(t, err, model.ErrCodeAmountMismatch)
	assert.Equal(t, orderModel.PaymentStatusPending, f.store.Order(order.ID).PaymentStatus)
}

func TestHandleIPN_StaleFailureIgnored(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	staleIPN := f.ipn(order, momo.ResultCodeUserDenied)

	_, err := f.svc.RetryPayment(context.Background(), order.ID, f.userID)
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleIPN(context.Background(), staleIPN))

	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.PaymentStatusPending, got.PaymentStatus)
	assert.Empty(t, f.store.History(order.ID))
}

func TestHandleIPN_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)
	ipn.OrderID = "ORD-20251108-9999_1762603200"
	f.gateway.SignIPN(&ipn)

	err := f.svc.HandleIPN(context.Background(), ipn)

	requirePaymentError(t, err, model.ErrCodePaymentNotFound)
}

// =====================================================
// RETURN URL
// =====================================================

func TestHandleReturn_AppliesWhenNoIPN(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()

	res, err := f.svc.HandleReturn(context.Background(), returnParams(f.ipn(order, momo.ResultCodeSuccess)))

	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusSuccess, res.Status)
	assert.Equal(t, "ORD-20251108-0001", res.OrderNumber)
	assert.Equal(t, "4088878653", res.TransID)
	assert.Equal(t, orderModel.StatusConfirmed, f.store.Order(order.ID).StatusID)

	logs := f.store.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.SourceReturn, logs[0].Source)
	assert.Nil(t, logs[0].SignatureValid)
}

func TestHandleReturn_AfterIPNIsNoop(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)
	require.NoError(t, f.svc.HandleIPN(context.Background(), ipn))
	before := f.store.Order(order.ID)

	res, err := f.svc.HandleReturn(context.Background(), returnParams(ipn))

	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusSuccess, res.Status)
	assert.Equal(t, before.Version, f.store.Order(order.ID).Version)
	assert.Len(t, f.store.History(order.ID), 1)
}

func TestHandleReturn_CannotOverrideAuthoritativeFailure(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	require.NoError(t, f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeUserDenied)))

	// redirect giả mạo báo thành công cho cùng gateway order id
	forged := returnParams(f.ipn(order, momo.ResultCodeSuccess))
	res, err := f.svc.HandleReturn(context.Background(), forged)

	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusFailed, res.Status)
	got := f.store.Order(order.ID)
	assert.Equal(t, orderModel.PaymentStatusFailed, got.PaymentStatus)
	assert.Equal(t, orderModel.StatusPending, got.StatusID)

	logs := f.store.Logs()
	assert.Equal(t, model.OutcomeSuperseded, logs[len(logs)-1].Outcome)
}

func TestHandleReturn_RejectsOtherAttemptID(t *testing.T) {
	tests := []struct {
		name        string
		ipnFirst    bool
		wantPayment string
	}{
		{"after authoritative failure", true, orderModel.PaymentStatusFailed},
		{"without any ipn", false, orderModel.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			order := f.seedMomoOrder()
			if tt.ipnFirst {
				require.NoError(t, f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeUserDenied)))
			}

			// cùng order number, timestamp khác attempt hiện tại
			forged := momo.ReturnParams{
				OrderID:    order.OrderNumber + "_1",
				Amount:     order.TotalAmount.IntPart(),
				ResultCode: momo.ResultCodeSuccess,
			}
			res, err := f.svc.HandleReturn(context.Background(), forged)

			requirePaymentError(t, err, model.ErrCodeAttemptMismatch)
			assert.Equal(t, model.ReturnStatusError, res.Status)
			got := f.store.Order(order.ID)
			assert.Equal(t, tt.wantPayment, got.PaymentStatus)
			assert.Equal(t, orderModel.StatusPending, got.StatusID)

			logs := f.store.Logs()
			last := logs[len(logs)-1]
			assert.Equal(t, model.SourceReturn, last.Source)
			assert.Equal(t, model.OutcomeRejected, last.Outcome)
		})
	}
}

func TestHandleReturn_SupersededByAuthoritativeUpdateOfEarlierAttempt(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	require.NoError(t, f.svc.HandleIPN(context.Background(), f.ipn(order, momo.ResultCodeUserDenied)))

	// attempt mới sau retry; IPN của attempt cũ đã là nguồn authoritative của order
	retryID := momo.NewRetryID(order.OrderNumber, fixedNow).String()
	f.store.UpdateOrder(order.ID, func(o *orderModel.Order) { o.GatewayOrderID = &retryID })
	current := f.store.Order(order.ID)

	res, err := f.svc.HandleReturn(context.Background(), returnParams(f.ipn(&current, momo.ResultCodeSuccess)))

	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusFailed, res.Status)
	assert.Equal(t, orderModel.StatusPending, f.store.Order(order.ID).StatusID)
	logs := f.store.Logs()
	assert.Equal(t, model.OutcomeSuperseded, logs[len(logs)-1].Outcome)
}

func TestHandleReturn_SignedParams(t *testing.T) {
	t.Run("valid signature applied", func(t *testing.T) {
		f := newFixture(t)
		order := f.seedMomoOrder()

		res, err := f.svc.HandleReturn(context.Background(), signedReturnParams(f.ipn(order, momo.ResultCodeSuccess)))

		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusSuccess, res.Status)
		logs := f.store.Logs()
		require.Len(t, logs, 1)
		require.NotNil(t, logs[0].SignatureValid)
		assert.True(t, *logs[0].SignatureValid)
		assert.False(t, logs[0].IsAuthoritative())
	})

	t.Run("tampered signature rejected", func(t *testing.T) {
		f := newFixture(t)
		order := f.seedMomoOrder()
		params := signedReturnParams(f.ipn(order, momo.ResultCodeUserDenied))
		params.ResultCode = momo.ResultCodeSuccess

		res, err := f.svc.HandleReturn(context.Background(), params)

		requirePaymentError(t, err, model.ErrCodeInvalidSignature)
		assert.Equal(t, model.ReturnStatusError, res.Status)
		assert.Equal(t, orderModel.PaymentStatusPending, f.store.Order(order.ID).PaymentStatus)
		logs := f.store.Logs()
		require.Len(t, logs, 1)
		require.NotNil(t, logs[0].SignatureValid)
		assert.False(t, *logs[0].SignatureValid)
		assert.Equal(t, model.OutcomeRejected, logs[0].Outcome)
	})
}

func TestHandleReturn_Pending(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()

	res, err := f.svc.HandleReturn(context.Background(), returnParams(f.ipn(order, momo.ResultCodePendingConfirm)))

	require.NoError(t, err)
	assert.Equal(t, model.ReturnStatusPending, res.Status)
	assert.Equal(t, orderModel.PaymentStatusPending, f.store.Order(order.ID).PaymentStatus)
}

func TestHandleReturn_MalformedOrderID(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.HandleReturn(context.Background(), momo.ReturnParams{OrderID: "garbage"})

	assert.ErrorIs(t, err, model.ErrInvalidCallbackData)
	assert.Equal(t, model.ReturnStatusError, res.Status)
}

// =====================================================
// QUERY / RECONCILE
// =====================================================

func TestQueryPayment_AppliesFinalResult(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	f.gateway.QueryResults[*order.GatewayOrderID] = momo.PaymentResult{
		TransID:    "555",
		ResultCode: momo.ResultCodeSuccess,
		Message:    "Thành công.",
		Amount:     decimal.NewFromInt(250000),
	}

	resp, err := f.svc.QueryPayment(context.Background(), order.OrderNumber, f.userID, false)

	require.NoError(t, err)
	assert.True(t, resp.Final)
	assert.Equal(t, model.OutcomeApplied, resp.Outcome)
	assert.Equal(t, orderModel.PaymentStatusPaid, resp.PaymentStatus)
	assert.Equal(t, int(orderModel.StatusConfirmed), resp.StatusID)
	assert.Equal(t, model.SourceQuery, f.store.Logs()[0].Source)
}

func TestQueryPayment_PendingLeavesOrder(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()

	resp, err := f.svc.QueryPayment(context.Background(), order.OrderNumber, f.userID, false)

	require.NoError(t, err)
	assert.False(t, resp.Final)
	assert.Equal(t, model.OutcomePending, resp.Outcome)
	assert.Equal(t, orderModel.PaymentStatusPending, f.store.Order(order.ID).PaymentStatus)
}

func TestQueryPayment_Ownership(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()

	_, err := f.svc.QueryPayment(context.Background(), order.OrderNumber, uuid.New(), false)
	requireOrderError(t, err, orderModel.ErrCodeForbidden)

	_, err = f.svc.QueryPayment(context.Background(), order.OrderNumber, uuid.New(), true)
	assert.NoError(t, err)
}

func TestQueryPayment_NotStarted(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder(func(o *orderModel.Order) { o.GatewayOrderID = nil })

	_, err := f.svc.QueryPayment(context.Background(), order.OrderNumber, f.userID, false)

	requirePaymentError(t, err, model.ErrCodePaymentNotFound)
}

func TestReconcilePending(t *testing.T) {
	f := newFixture(t)
	paid := f.seedMomoOrder()
	waiting := f.seedMomoOrder(func(o *orderModel.Order) {
		o.OrderNumber = "ORD-20251108-0002"
		gid := momo.NewInitialID(o.OrderNumber, fixedNow.Add(-time.Hour)).String()
		o.GatewayOrderID = &gid
	})
	f.gateway.QueryResults[*paid.GatewayOrderID] = momo.PaymentResult{
		TransID:    "777",
		ResultCode: momo.ResultCodeSuccess,
		Amount:     decimal.NewFromInt(250000),
	}

	applied, err := f.svc.ReconcilePending(context.Background(), 15*time.Minute, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, orderModel.PaymentStatusPaid, f.store.Order(paid.ID).PaymentStatus)
	assert.Equal(t, orderModel.PaymentStatusPending, f.store.Order(waiting.ID).PaymentStatus)
}

func TestListPaymentLogs_NewestFirst(t *testing.T) {
	f := newFixture(t)
	order := f.seedMomoOrder()
	ipn := f.ipn(order, momo.ResultCodeSuccess)

	require.NoError(t, f.svc.HandleIPN(context.Background(), ipn))
	_, err := f.svc.HandleReturn(context.Background(), returnParams(ipn))
	require.NoError(t, err)

	logs, err := f.svc.ListPaymentLogs(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, model.SourceReturn, logs[0].Source)
	assert.Equal(t, model.SourceIPN, logs[1].Source)
	assert.Equal(t, model.OutcomeApplied, logs[1].Outcome)
	require.NotNil(t, logs[1].SignatureValid)
	assert.True(t, *logs[1].SignatureValid)

	other, err := f.svc.ListPaymentLogs(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
