package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMaxAge is how long, in seconds, browsers may cache a preflight result.
const CORSMaxAge = 600

// CORS allows credentialed cross-origin requests from a single origin.
// An empty origin disables the middleware.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           CORSMaxAge,
	})
}
