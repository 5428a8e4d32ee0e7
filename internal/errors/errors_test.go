package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("name: %w", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{ErrScoreOutOfRange, http.StatusBadRequest, "SCORE_OUT_OF_RANGE"},
		{fmt.Errorf("submit: %w", ErrProjectNotFound), http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrReservedStudentID, http.StatusForbidden, "RESERVED_STUDENT_ID"},
		{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.ToErrorResponse().Code)
		})
	}

	t.Run("internal detail is not exposed", func(t *testing.T) {
		got := MapErrorToHTTP(fmt.Errorf("password=hunter2"))
		assert.Equal(t, "internal server error", got.Error())
	})
}
