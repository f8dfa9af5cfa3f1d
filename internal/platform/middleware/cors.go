package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns a middleware that lets any origin read the greeting API.
// The API is read-only, so only safe methods are allowed.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-Id",
			"traceparent",
		},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
