package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bnema/spendshred/internal/adapters/wire"
	"github.com/bnema/spendshred/internal/domain"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, field, message string) {
	writeJSON(w, statusCode, wire.Error{Error: message, Field: field})
}

// writeDomainError maps domain errors onto status codes: validation 422,
// unknown id 404, anything else 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	var notFound *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, validationErr.Field, validationErr.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "", notFound.Error())
	default:
		h.logger.Error("request failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "", "internal server error")
	}
}
