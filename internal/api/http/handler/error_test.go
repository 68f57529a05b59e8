package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/linkverify-server/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", model.ErrNotFound, http.StatusBadRequest, "Invalid verification link"},
		{"token mismatch", model.ErrTokenMismatch, http.StatusBadRequest, "Link expired or invalid"},
		{"verify token missing", model.ErrVerifyTokenMissing, http.StatusBadRequest, "Verification unavailable"},
		{"already used", model.ErrAlreadyUsed, http.StatusGone, "Link already used"},
		{"resolution failed", fmt.Errorf("%w: 502", model.ErrResolutionFailed), http.StatusBadRequest, "Redirection failed"},
		{"unavailable", model.ErrServiceUnavailable, http.StatusBadRequest, "Service unavailable"},
		{"not consumed", model.ErrNotConsumed, http.StatusNotFound, "Link not ready"},
		{"unknown", errors.New("boom"), http.StatusBadRequest, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := handleError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}
