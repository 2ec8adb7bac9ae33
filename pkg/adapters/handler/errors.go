package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Storage failures are
// logged in full but reported with a generic detail.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, detail := classify(err)
	if status == http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			fields = append(fields, zap.String("op", pe.Op), zap.NamedError("cause", pe.Err))
		}
		log.Error("request failed", fields...)
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

func classify(err error) (int, string) {
	var ve *domain.ValidationError
	var pe *domain.PersistenceError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "Authentication code not correct."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Post not found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	case errors.As(err, &pe):
		return http.StatusInternalServerError, "Internal Server Error - DB Operation Failed"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
