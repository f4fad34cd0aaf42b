package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderModel "netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/payment/gateway/momo"
	"netshop-backend/internal/domains/payment/model"
	"netshop-backend/internal/domains/payment/service"
	"netshop-backend/internal/shared/middleware"
	"netshop-backend/internal/shared/response"
	"netshop-backend/pkg/logger"
)

// =====================================================
// PAYMENT HANDLER
// =====================================================
type PaymentHandler struct {
	paymentService service.PaymentService
	resultURL      string // trang kết quả của frontend
}

func NewPaymentHandler(paymentService service.PaymentService, resultURL string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		resultURL:      resultURL,
	}
}

// RetryPayment godoc
// @Summary Retry MoMo payment for an unpaid order
// @Tags Payments
// @Param id path string true "Order ID (UUID)"
// @Router /orders/{id}/retry-payment [post]
func (h *PaymentHandler) RetryPayment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Order ID must be a valid UUID")
		return
	}

	result, err := h.paymentService.RetryPayment(c.Request.Context(), orderID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment URL created", result)
}

// MomoIPN handles Momo IPN callback
// POST /api/v1/payments/momo/ipn
//
// 204 khi đã xử lý (kể cả idempotent skip hoặc order đã đóng),
// 400 khi sai chữ ký, 5xx để Momo gửi lại.
func (h *PaymentHandler) MomoIPN(c *gin.Context) {
	var ipn momo.IPN
	if err := c.ShouldBindJSON(&ipn); err != nil {
		response.BadRequest(c, "Invalid IPN payload")
		return
	}

	err := h.paymentService.HandleIPN(c.Request.Context(), ipn)
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var payErr *model.PaymentError
	switch {
	case errors.Is(err, model.ErrInvalidSignature):
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidSignature, "Invalid signature")
	case errors.Is(err, model.ErrInvalidCallbackData):
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidCallbackData, "Invalid IPN payload")
	case errors.As(err, &payErr):
		// Business rejection đã được ghi log; Momo không cần gửi lại
		logger.Warn("MoMo IPN rejected", map[string]interface{}{
			"gateway_order_id": ipn.OrderID,
			"code":             payErr.Code,
			"error":            err.Error(),
		})
		c.Status(http.StatusNoContent)
	default:
		logger.ErrorWithFields("MoMo IPN processing failed", err, map[string]interface{}{
			"gateway_order_id": ipn.OrderID,
		})
		response.InternalServerError(c, "Failed to process IPN")
	}
}

// MomoReturn là redirect target của browser sau khi thanh toán.
// GET /api/v1/payments/momo/return
func (h *PaymentHandler) MomoReturn(c *gin.Context) {
	var params momo.ReturnParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.redirectResult(c, &model.ReturnResult{Status: model.ReturnStatusError, Message: "Invalid return parameters"})
		return
	}

	result, err := h.paymentService.HandleReturn(c.Request.Context(), params)
	if err != nil {
		logger.Warn("MoMo return reconciliation failed", map[string]interface{}{
			"gateway_order_id": params.OrderID,
			"error":            err.Error(),
		})
	}

	h.redirectResult(c, result)
}

// QueryPayment godoc
// @Summary Query MoMo payment status of an order
// @Tags Payments
// @Param order_number query string true "Order number"
// @Router /payments/momo/query [get]
func (h *PaymentHandler) QueryPayment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.QueryPaymentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "order_number is required")
		return
	}

	result, err := h.paymentService.QueryPayment(c.Request.Context(), req.OrderNumber, userID, middleware.IsAdmin(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment status retrieved", result)
}

// ListPaymentLogs godoc
// @Summary List payment callback logs of an order (admin)
// @Tags Admin Orders
// @Router /admin/orders/{id}/payment-logs [get]
func (h *PaymentHandler) ListPaymentLogs(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Order ID must be a valid UUID")
		return
	}

	logs, err := h.paymentService.ListPaymentLogs(c.Request.Context(), orderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment logs retrieved", logs)
}

// =====================================================
// HELPERS
// =====================================================

func (h *PaymentHandler) redirectResult(c *gin.Context, result *model.ReturnResult) {
	q := url.Values{}
	q.Set("orderId", result.OrderNumber)
	q.Set("status", result.Status)
	q.Set("transId", result.TransID)
	q.Set("message", result.Message)

	c.Redirect(http.StatusFound, h.resultURL+"?"+q.Encode())
}

func (h *PaymentHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *orderModel.OrderError
	if errors.As(err, &orderErr) {
		response.ErrorResponse(c, orderStatusCode(orderErr.Code), orderErr.Code, orderErr.Message)
		return
	}

	var payErr *model.PaymentError
	if errors.As(err, &payErr) {
		response.ErrorResponse(c, getHTTPStatusFromErrorCode(payErr.Code), payErr.Code, payErr.Message)
		return
	}

	logger.ErrorWithFields("Payment request failed", err, map[string]interface{}{
		"path": c.FullPath(),
	})
	response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error")
}

func orderStatusCode(code string) int {
	switch code {
	case orderModel.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case orderModel.ErrCodeForbidden:
		return http.StatusForbidden
	case orderModel.ErrCodePaymentNotRetryable, orderModel.ErrCodeInvalidStatus:
		return http.StatusUnprocessableEntity
	case orderModel.ErrCodeVersionMismatch:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// getHTTPStatusFromErrorCode maps payment error codes to HTTP status codes
func getHTTPStatusFromErrorCode(code string) int {
	statusMap := map[string]int{
		model.ErrCodePaymentNotFound:     http.StatusNotFound,
		model.ErrCodeOrderAlreadyPaid:    http.StatusConflict,
		model.ErrCodeInvalidGateway:      http.StatusBadRequest,
		model.ErrCodeInvalidSignature:    http.StatusBadRequest,
		model.ErrCodeInvalidCallbackData: http.StatusBadRequest,
		model.ErrCodeGatewayTimeout:      http.StatusGatewayTimeout,
		model.ErrCodeGatewayUnavailable:  http.StatusBadGateway,
		model.ErrCodeGatewayRejected:     http.StatusBadGateway,
		model.ErrCodeOrderClosed:         http.StatusUnprocessableEntity,
		model.ErrCodeAmountMismatch:      http.StatusUnprocessableEntity,
		model.ErrCodeAttemptMismatch:     http.StatusUnprocessableEntity,
	}

	if status, exists := statusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}
