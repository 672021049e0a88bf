package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
)

// CORS allows browser clients on the configured origins to call the API.
// Clients authenticate with a bearer token, so cookies are never sent cross-origin.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
