package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/admin"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/cache"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = time.Minute
	maxSeriesDays   = 90
)

type AdminHandler struct {
	aggregator *admin.Aggregator
	cache      *cache.Cache
}

func NewAdminHandler(aggregator *admin.Aggregator, c *cache.Cache) *AdminHandler {
	return &AdminHandler{aggregator: aggregator, cache: c}
}

// GET /v1/admin/dashboard/summary
func (h *AdminHandler) Summary(c *gin.Context) {
	if cached, found := h.cache.Get(summaryCacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	summary, err := h.aggregator.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.Set(summaryCacheKey, summary, summaryCacheTTL)
	c.JSON(http.StatusOK, summary)
}

// GET /v1/admin/dashboard/series?days=N
func (h *AdminHandler) DailySeries(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > maxSeriesDays {
		writeError(c, apperrors.Validation("days must be between 1 and %d", maxSeriesDays))
		return
	}

	series, err := h.aggregator.DailySeries(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "series": series})
}

// GET /v1/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.aggregator.ListOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /v1/admin/carts
func (h *AdminHandler) ListCarts(c *gin.Context) {
	carts, err := h.aggregator.ListCarts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, carts)
}
