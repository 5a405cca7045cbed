package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/order"
)

type OrderHandler struct {
	converter *order.Converter
}

func NewOrderHandler(converter *order.Converter) *OrderHandler {
	return &OrderHandler{converter: converter}
}

type placeOrderRequest struct {
	CartID      string `json:"cart_id" binding:"required"`
	ShopperName string `json:"shopper_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
}

// POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	version, err := expectedVersion(c)
	if err != nil {
		writeError(c, err)
		return
	}

	number, err := h.converter.PlaceOrder(c.Request.Context(), order.PlaceInput{
		CartID:          req.CartID,
		ShopperName:     req.ShopperName,
		Email:           req.Email,
		Phone:           req.Phone,
		ExpectedVersion: version,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_number": number})
}
