package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/cache"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/repository"
)

type ProductHandler struct {
	repo     *repository.ProductRepository
	variants *repository.VariantRepository
	cache    *cache.Cache
}

func NewProductHandler(repo *repository.ProductRepository, variants *repository.VariantRepository, c *cache.Cache) *ProductHandler {
	return &ProductHandler{repo: repo, variants: variants, cache: c}
}

// ProductDetail pairs a product with its variants for display.
type ProductDetail struct {
	Product  *models.Product          `json:"product"`
	Variants []*models.ProductVariant `json:"variants"`
}

// POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if product.PriceCents < 0 {
		writeError(c, apperrors.Validation("price cannot be negative"))
		return
	}
	if product.Rating < 0 || product.Rating > 5 {
		writeError(c, apperrors.Validation("rating must be between 0 and 5"))
		return
	}

	if err := h.repo.Create(c.Request.Context(), &product); err != nil {
		writeError(c, err)
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusCreated, product)
}

// GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.ProductFilter{
		CategoryID: c.Query("category"),
		Query:      c.Query("q"),
		Page:       page,
		PageSize:   pageSize,
	}
	if featured := c.Query("featured"); featured != "" {
		val := featured == "true"
		filter.Featured = &val
	}

	cacheKey := fmt.Sprintf("products:list:p%d_s%d_cat:%s_q:%s_feat:%s",
		page, pageSize, filter.CategoryID, filter.Query, c.Query("featured"))
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response := gin.H{
		"data":      products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}
	h.cache.Set(cacheKey, response, 2*time.Minute)
	c.JSON(http.StatusOK, response)
}

// GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := fmt.Sprintf("product:%s", productID)

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}

	detail := ProductDetail{Product: product, Variants: []*models.ProductVariant{}}
	if product.HasVariants {
		variants, err := h.variants.FindByProduct(c.Request.Context(), product.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		detail.Variants = variants
	}

	h.cache.Set(cacheKey, detail, 5*time.Minute)
	c.JSON(http.StatusOK, detail)
}

// PATCH /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	updateMap := bson.M{}
	if update.Name != nil {
		updateMap["name"] = *update.Name
	}
	if update.Description != nil {
		updateMap["description"] = *update.Description
	}
	if update.Images != nil {
		updateMap["images"] = update.Images
	}
	if update.PriceCents != nil {
		if *update.PriceCents < 0 {
			writeError(c, apperrors.Validation("price cannot be negative"))
			return
		}
		updateMap["price_cents"] = *update.PriceCents
	}
	if update.Rating != nil {
		updateMap["rating"] = *update.Rating
	}
	if update.CategoryID != nil {
		updateMap["category_id"] = *update.CategoryID
	}
	if update.IsFeatured != nil {
		updateMap["is_featured"] = *update.IsFeatured
	}
	if update.HasVariants != nil {
		updateMap["has_variants"] = *update.HasVariants
	}
	if update.Colors != nil {
		updateMap["colors"] = update.Colors
	}
	if update.Sizes != nil {
		updateMap["sizes"] = update.Sizes
	}

	if len(updateMap) == 0 {
		writeError(c, apperrors.Validation("no valid fields to update"))
		return
	}

	if err := h.repo.Update(c.Request.Context(), productID, updateMap); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, SuccessResponse{Message: "product updated"})
}

// DELETE /v1/admin/products/:id
//
// Deleting a product leaves existing cart and order lines pointing at it;
// those render with a nil product rather than break.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), productID); err != nil {
		writeError(c, err)
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}
