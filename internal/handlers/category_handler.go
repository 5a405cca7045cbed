package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/repository"
)

type CategoryHandler struct {
	repo *repository.CategoryRepository
}

func NewCategoryHandler(repo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// POST /v1/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.repo.Create(c.Request.Context(), &category); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GET /v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GET /v1/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// PATCH /v1/admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var update models.CategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	updateMap := bson.M{}
	if update.Name != nil {
		updateMap["name"] = *update.Name
	}
	if update.Images != nil {
		updateMap["images"] = update.Images
	}
	if len(updateMap) == 0 {
		writeError(c, apperrors.Validation("no valid fields to update"))
		return
	}

	if err := h.repo.Update(c.Request.Context(), c.Param("id"), updateMap); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "category updated"})
}

// DELETE /v1/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "category deleted"})
}
