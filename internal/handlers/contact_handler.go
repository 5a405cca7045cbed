package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/contact"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type ContactHandler struct {
	service *contact.Service
}

func NewContactHandler(service *contact.Service) *ContactHandler {
	return &ContactHandler{service: service}
}

// POST /v1/contact
func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var in contact.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, apperrors.Validation("invalid contact message: %v", err))
		return
	}

	msg, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GET /v1/admin/contacts
func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type updateStatusRequest struct {
	Status models.ContactStatus `json:"status" binding:"required"`
}

// PATCH /v1/admin/contacts/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	msg, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
