package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrNotAvailable, http.StatusConflict},
		{ErrUsernameTaken, http.StatusConflict},
		{ErrRateLimit, http.StatusTooManyRequests},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, MapErrorToStatus(tc.err), "error %v", tc.err)
	}
}

func TestMapErrorToStatusSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("donation is requested: %w", ErrNotAvailable)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(err))
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := ErrForbidden
	appErr := New(http.StatusForbidden, "not yours", inner)

	assert.ErrorIs(t, appErr, ErrForbidden)
	assert.Equal(t, "forbidden", appErr.Error())

	bare := New(http.StatusBadRequest, "just a message", nil)
	assert.Equal(t, "just a message", bare.Error())
}
