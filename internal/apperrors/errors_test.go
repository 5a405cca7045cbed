package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsValidation(Validation("x")))
	assert.True(t, IsConflict(Conflict("x")))
	assert.True(t, IsDependency(Dependency(errors.New("boom"), "x")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("inner"))
	assert.True(t, IsNotFound(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("x")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("x")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Dependency(errors.New("boom"), "x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestDependencyUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency(cause, "insert order")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert order")
	assert.Contains(t, err.Error(), "connection refused")
}
