package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/queueless/canteen/internal/domain"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondDomainError maps the error taxonomy onto status codes:
// validation and conflict 400, not-found 404, authorization 403
// (credentials 401), anything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		authz      *domain.AuthorizationError
	)

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Message: validation.Message})
	case errors.As(err, &notFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{Message: "Not found"})
	case errors.As(err, &conflict):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Message: conflict.Message})
	case errors.As(err, &authz):
		respondJSON(w, http.StatusForbidden, ErrorResponse{Message: authz.Message})
	default:
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Message: message})
}
