package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

// writeError maps domain errors to HTTP status codes. Unrecognized errors
// are logged and reported as 500 without their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("❌ request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeErrorMessage(w, status, "internal error")
		return
	}
	writeErrorMessage(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrDuplicateSku), errors.Is(err, repo.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		return http.StatusConflict
	case errors.Is(err, repo.ErrInvalidQuantity),
		errors.Is(err, repo.ErrInvalidTransactionType),
		errors.Is(err, repo.ErrInvalidProduct):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
