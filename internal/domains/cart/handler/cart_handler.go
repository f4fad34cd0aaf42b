package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"netshop-backend/internal/domains/cart/model"
	"netshop-backend/internal/domains/cart/service"
	productModel "netshop-backend/internal/domains/product/model"
	"netshop-backend/internal/shared/middleware"
	"netshop-backend/internal/shared/response"
	"netshop-backend/pkg/logger"
)

// Handler handles HTTP requests for cart
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{
		service: service,
	}
}

// ===================================
// GET /cart
// ===================================

// GetCart handles GET /cart
// @Summary Get current user's shopping cart
// @Router /cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cart retrieved successfully", cart)
}

// ===================================
// POST /cart/items
// ===================================

// AddItem handles POST /cart/items
// @Summary Add product to cart
// @Description Creates the cart lazily; an existing product line is incremented
// @Router /cart/items [post]
func (h *Handler) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Item added to cart", item)
}

// UpdateItem handles PATCH /cart/items/:productId
func (h *Handler) UpdateItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), userID, productID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cart item updated", item)
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *Handler) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cart item removed", nil)
}

// ValidateCart handles GET /cart/validate
// @Summary Validate cart before checkout
// @Description Itemized errors: PRODUCT_NOT_FOUND, PRODUCT_INACTIVE, INSUFFICIENT_STOCK, PRICE_CHANGED
// @Router /cart/validate [get]
func (h *Handler) ValidateCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	result, err := h.service.ValidateCart(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Cart validated", result)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, model.ErrCartNotFound), errors.Is(err, model.ErrCartItemNotFound):
		response.ErrorResponse(c, http.StatusNotFound, "CART_ITEM_NOT_FOUND", err.Error())
	case errors.Is(err, productModel.ErrProductNotFound):
		response.ErrorResponse(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error())
	case errors.Is(err, model.ErrProductNotActive):
		response.ErrorResponse(c, http.StatusBadRequest, "PRODUCT_INACTIVE", err.Error())
	case errors.Is(err, productModel.ErrInsufficientStock):
		response.ErrorResponse(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, model.ErrQuantityTooHigh), errors.Is(err, model.ErrInvalidQuantity):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error())
	default:
		logger.Error("cart request failed", err)
		response.InternalServerError(c, "Internal server error")
	}
}
