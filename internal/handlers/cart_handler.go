package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/cart"
)

type CartHandler struct {
	manager *cart.Manager
}

func NewCartHandler(manager *cart.Manager) *CartHandler {
	return &CartHandler{manager: manager}
}

// upsertCartRequest replaces the cart wholesale; an empty list empties
// the cart without deleting it.
type upsertCartRequest struct {
	Items []cart.ItemInput `json:"items"`
}

// GET /v1/cart/:cartId
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.manager.Fetch(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /v1/cart/:cartId
//
// Replaces the whole item list; omitting a line removes it. Prices are
// resolved server-side, so any price the client sends is ignored by
// binding.
func (h *CartHandler) UpsertCart(c *gin.Context) {
	var req upsertCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	version, err := expectedVersion(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.manager.Upsert(c.Request.Context(), c.Param("cartId"), req.Items, version)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PATCH /v1/cart/:cartId/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var upd cart.ItemUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	version, err := expectedVersion(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.manager.UpdateItem(c.Request.Context(), c.Param("cartId"), c.Param("itemId"), upd, version)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /v1/cart/:cartId/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	version, err := expectedVersion(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.manager.RemoveItem(c.Request.Context(), c.Param("cartId"), c.Param("itemId"), version)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /v1/cart/:cartId
func (h *CartHandler) ClearCart(c *gin.Context) {
	version, err := expectedVersion(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.manager.Clear(c.Request.Context(), c.Param("cartId"), version); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "cart cleared"})
}
