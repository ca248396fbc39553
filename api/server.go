// ABOUTME: HTTP router assembly with CORS and middleware
// ABOUTME: Maps routes to handlers and chains logging around the whole mux

package api

import (
	"net/http"

	"github.com/rs/cors"

	"recipe-importer-api/api/handlers"
	"recipe-importer-api/api/middleware"
	"recipe-importer-api/core/interfaces"
)

// RouterConfig holds the handlers and shared dependencies for the router
type RouterConfig struct {
	Logger       interfaces.Logger
	ParseHandler *handlers.ParseHandler
	Health       *handlers.HealthHandler
}

// NewRouter builds the HTTP handler chain: CORS, request logging, routes.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/parse", cfg.ParseHandler.Handle)
	mux.HandleFunc("/healthz", cfg.Health.Healthz)
	mux.HandleFunc("/version", cfg.Health.Version)

	var handler http.Handler = mux
	handler = middleware.RequestLoggingMiddleware(cfg.Logger)(handler)

	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler(handler)

	return handler
}
