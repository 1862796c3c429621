package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/response"
	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/validation"
)

// retryAfterSeconds is sent with 429 responses. The upstream free tier refills per minute.
const retryAfterSeconds = "60"

// errorStatuses maps service errors to HTTP status codes. The first match wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{apperrors.ErrUserNotFound, http.StatusNotFound},
	{apperrors.ErrPortfolioNotFound, http.StatusNotFound},
	{apperrors.ErrHoldingNotFound, http.StatusNotFound},
	{apperrors.ErrHoldingNotInPortfolio, http.StatusBadRequest},
	{apperrors.ErrInsufficientCatalog, http.StatusBadRequest},
	{apperrors.ErrInvalidTicker, http.StatusBadRequest},
	{apperrors.ErrDuplicateUsername, http.StatusConflict},
	{apperrors.ErrDuplicateEmail, http.StatusConflict},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests},
	{apperrors.ErrDataIntegrity, http.StatusUnprocessableEntity},
	{apperrors.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
}

// respondServiceError writes err with the status of its category. Unrecognised
// errors are logged and reported as 500 with a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			if e.status == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", retryAfterSeconds)
			}
			response.RespondError(w, e.status, e.err.Error(), err.Error())
			return
		}
	}

	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	response.RespondError(w, http.StatusInternalServerError, "internal server error", "")
}
