package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{InvalidSelfAction("self"), http.StatusBadRequest},
		{ProtectedRole("admin target"), http.StatusForbidden},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Validation("bad"), http.StatusBadRequest},
		{Duplicate("dup"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{InvalidCredentials(), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestValidationKeepsFirstMessage(t *testing.T) {
	err := Validation("Title is required", "Year must be between 1900-2030")

	assert.Equal(t, "Title is required", err.Message)
	assert.Len(t, err.Details, 2)
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("delete user: %w", ProtectedRole("Cannot delete admin users"))

	require.True(t, Is(err, KindProtectedRole))
	assert.False(t, Is(err, KindForbidden))
	assert.False(t, Is(errors.New("plain"), KindProtectedRole))
}
