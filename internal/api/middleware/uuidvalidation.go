// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/response"
	"github.com/ndewijer/stock-portfolio-tracker/internal/validation"
)

// ValidateUUIDMiddleware validates that the uuid URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.GetPortfolio)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return ValidateUUIDParams("uuid")(next)
}

// ValidateUUIDParams is ValidateUUIDMiddleware for any set of URL parameters.
// Every named parameter must be a valid UUID.
func ValidateUUIDParams(params ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, param := range params {
				value := chi.URLParam(r, param)

				if value == "" {
					response.RespondError(w, http.StatusBadRequest, "valid UUID is required", param)
					return
				}

				if err := validation.ValidateUUID(value); err != nil {
					response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
