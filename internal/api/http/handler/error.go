package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/linkverify-server/internal/model"
)

const msgUnexpected = "Something went wrong"

func handleError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusBadRequest, "Invalid verification link"
	case errors.Is(err, model.ErrTokenMismatch):
		return http.StatusBadRequest, "Link expired or invalid"
	case errors.Is(err, model.ErrVerifyTokenMissing):
		return http.StatusBadRequest, "Verification unavailable"
	case errors.Is(err, model.ErrAlreadyUsed):
		return http.StatusGone, "Link already used"
	case errors.Is(err, model.ErrResolutionFailed):
		return http.StatusBadRequest, "Redirection failed"
	case errors.Is(err, model.ErrServiceUnavailable):
		return http.StatusBadRequest, "Service unavailable"
	case errors.Is(err, model.ErrNotConsumed):
		return http.StatusNotFound, "Link not ready"
	default:
		return http.StatusBadRequest, msgUnexpected
	}
}
