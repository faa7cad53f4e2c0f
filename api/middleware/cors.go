package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/floramarket/flora-backend/pkg/config"
)

// CORS applies the catalog API's origin policy. The catalog is read-only so
// only safe methods are allowed.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
