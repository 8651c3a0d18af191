package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "product %d not found", 42)

	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "product 42 not found", err.Message())
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load cart")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))
}

func TestCodeOfUnwrapsChain(t *testing.T) {
	inner := New(CodeConflict, "email already registered")
	outer := fmt.Errorf("register: %w", inner)

	assert.Equal(t, CodeConflict, CodeOf(outer))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:        http.StatusBadRequest,
		CodeUnauthorized:      http.StatusUnauthorized,
		CodeForbidden:         http.StatusForbidden,
		CodeNotFound:          http.StatusNotFound,
		CodeConflict:          http.StatusConflict,
		CodeInsufficientStock: http.StatusConflict,
		CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Code("UNKNOWN")))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "invalid request body").
		WithDetails(map[string]string{"email": "must be a valid email address"})

	assert.Equal(t, "must be a valid email address", err.Details()["email"])
}
