package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferchini45-svg/carrito/internal/domain"
	"github.com/ferchini45-svg/carrito/internal/session"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{
		OK:    false,
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps core errors to stable codes. Unknown errors are
// logged and hidden behind internal_error.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		code   string
	)

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		status, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, domain.ErrLineNotFound):
		status, code = http.StatusNotFound, "line_not_found"
	case errors.Is(err, domain.ErrOrderNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrNotAuthenticated):
		status, code = http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, domain.ErrEmptyCart):
		status, code = http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, session.ErrInvalidID):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrEmailTaken):
		status, code = http.StatusConflict, "email_taken"
	case errors.Is(err, domain.ErrUserNotFound):
		status, code = http.StatusNotFound, "user_not_found"
	case errors.Is(err, domain.ErrWrongPassword):
		status, code = http.StatusUnauthorized, "wrong_password"
	case errors.Is(err, domain.ErrPersistence):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("storage failure")
		respondError(w, r, http.StatusServiceUnavailable, "persistence_failure", "storage is unavailable, try again")
		return
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, r, status, code, err.Error())
}
