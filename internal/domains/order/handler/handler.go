package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"netshop-backend/internal/domains/order/model"
	"netshop-backend/internal/domains/order/service"
	"netshop-backend/internal/shared/middleware"
	"netshop-backend/internal/shared/response"
	"netshop-backend/pkg/logger"
)

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

// CreateOrder godoc
// @Summary Create new order
// @Description Create order from the current cart, decrements stock, clears cart
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.CreateOrderRequest true "Create order request"
// @Success 201 {object} response.Response{data=model.CreateOrderResponse}
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req.CustomerEmail = c.GetString("email")

	result, err := h.orderService.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Order created successfully", result)
}

// =====================================================
// GET ORDER
// =====================================================

// GetOrderDetail godoc
// @Summary Get order detail
// @Tags Orders
// @Param id path string true "Order ID (UUID)"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrder(c.Request.Context(), orderID, userID, middleware.IsAdmin(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order retrieved successfully", detail)
}

// GetOrderByNumber godoc
// @Summary Get order by order number
// @Tags Orders
// @Param orderNumber path string true "Order number, e.g. ORD-20251108-0001"
// @Router /orders/number/{orderNumber} [get]
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		response.BadRequest(c, "Order number is required")
		return
	}

	detail, err := h.orderService.GetOrderByNumber(c.Request.Context(), orderNumber, userID, middleware.IsAdmin(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order retrieved successfully", detail)
}

// GetOrderHistory godoc
// @Summary Get status history of an order
// @Tags Orders
// @Router /orders/{id}/history [get]
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	history, err := h.orderService.GetHistory(c.Request.Context(), orderID, userID, middleware.IsAdmin(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order history retrieved successfully", history)
}

// =====================================================
// LIST ORDERS
// =====================================================

// ListOrders godoc
// @Summary List current user's orders
// @Tags Orders
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status_id query int false "Filter by status id (1-7)"
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Orders, response.NewMeta(result.Page, result.Limit, result.Total))
}

// =====================================================
// CANCEL ORDER
// =====================================================

// CancelOrder godoc
// @Summary Cancel order
// @Description Allowed while the order is pending or confirmed; stock is restored
// @Tags Orders
// @Param id path string true "Order ID (UUID)"
// @Param request body model.CancelOrderRequest false "Cancel reason"
// @Router /orders/{id}/cancel [patch]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req model.CancelOrderRequest
	// Body là optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	detail, err := h.orderService.CancelOrder(c.Request.Context(), orderID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order cancelled successfully", detail)
}

// =====================================================
// ADMIN
// =====================================================

// ListAllOrders godoc
// @Summary List all orders (admin)
// @Tags Admin Orders
// @Router /admin/orders [get]
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListAllOrders(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Orders, response.NewMeta(result.Page, result.Limit, result.Total))
}

// UpdateOrderStatus godoc
// @Summary Update order status (admin)
// @Tags Admin Orders
// @Param id path string true "Order ID (UUID)"
// @Param request body model.UpdateOrderStatusRequest true "New status"
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	detail, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, adminID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order status updated successfully", detail)
}

// ExportOrders godoc
// @Summary Export orders to Excel (admin)
// @Tags Admin Orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /admin/orders/export [get]
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	var req model.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var buf bytes.Buffer
	if err := h.orderService.ExportOrders(c.Request.Context(), req, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// =====================================================
// HELPER METHODS
// =====================================================

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Order ID must be a valid UUID")
		return uuid.Nil, false
	}
	return orderID, true
}

// handleServiceError maps service errors to HTTP responses
func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		statusCode := getHTTPStatusFromErrorCode(orderErr.Code)
		if orderErr.Details != nil {
			response.ErrorWithDetails(c, statusCode, orderErr.Code, orderErr.Message, orderErr.Details)
			return
		}
		response.ErrorResponse(c, statusCode, orderErr.Code, orderErr.Message)
		return
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ValidationFailed(c, err)
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeOrderNotFound, "Order not found")
	case errors.Is(err, model.ErrVersionMismatch):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeVersionMismatch,
			"Concurrent modification detected. Please refresh and try again.")
	default:
		logger.ErrorWithFields("Order request failed", err, map[string]interface{}{
			"path": c.FullPath(),
		})
		response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodeInternal, "Internal server error")
	}
}

// getHTTPStatusFromErrorCode maps business error codes to HTTP status codes
func getHTTPStatusFromErrorCode(code string) int {
	statusMap := map[string]int{
		model.ErrCodeOrderNotFound:       http.StatusNotFound,
		model.ErrCodeOrderCannotCancel:   http.StatusUnprocessableEntity,
		model.ErrCodeVersionMismatch:     http.StatusConflict,
		model.ErrCodeInsufficientStock:   http.StatusBadRequest,
		model.ErrCodeDiscountInvalid:     http.StatusUnprocessableEntity,
		model.ErrCodeAddressNotFound:     http.StatusNotFound,
		model.ErrCodeCartEmpty:           http.StatusBadRequest,
		model.ErrCodeInvalidPayment:      http.StatusBadRequest,
		model.ErrCodeForbidden:           http.StatusForbidden,
		model.ErrCodeInvalidStatus:       http.StatusUnprocessableEntity,
		model.ErrCodeCartInvalid:         http.StatusBadRequest,
		model.ErrCodeOrderNumberConflict: http.StatusConflict,
		model.ErrCodePaymentNotRetryable: http.StatusUnprocessableEntity,
	}

	if status, exists := statusMap[code]; exists {
		return status
	}

	return http.StatusInternalServerError
}
