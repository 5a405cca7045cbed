package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// writeError maps the error taxonomy onto response codes so callers can
// tell "nothing happened" (400/404) from "something may have partially
// happened" (502).
func writeError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// expectedVersion reads the optional If-Match header carrying the cart
// version the client last saw. Absent means an unconditional write.
func expectedVersion(c *gin.Context) (int64, error) {
	raw := c.GetHeader("If-Match")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		return 0, apperrors.Validation("invalid If-Match version %q", raw)
	}
	return v, nil
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
