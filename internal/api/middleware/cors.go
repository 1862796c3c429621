package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORS allows browser clients from allowedOrigins. Retry-After is exposed so
// clients can read the back-off sent with 429 responses.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Type", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
