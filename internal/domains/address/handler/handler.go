package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"netshop-backend/internal/domains/address/model"
	"netshop-backend/internal/domains/address/service"
	"netshop-backend/internal/shared/middleware"
	"netshop-backend/internal/shared/response"
	"netshop-backend/pkg/logger"
)

type AddressHandler struct {
	service service.ServiceInterface
}

func NewAddressHandler(service service.ServiceInterface) *AddressHandler {
	return &AddressHandler{
		service: service,
	}
}

// CreateAddress handles POST /addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	addr, err := h.service.CreateAddress(c.Request.Context(), userID, &req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ValidationFailed(c, verrs)
			return
		}
		logger.Error("create address failed", err)
		response.InternalServerError(c, "Failed to create address")
		return
	}

	response.Success(c, http.StatusCreated, "Address created successfully", addr)
}

// ListAddresses handles GET /addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		logger.Error("list addresses failed", err)
		response.InternalServerError(c, "Failed to list addresses")
		return
	}

	response.Success(c, http.StatusOK, "Addresses retrieved", addresses)
}
