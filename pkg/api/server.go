// Package api exposes the settings blob over HTTP: a decoded, reconciled
// JSON view for clients plus the raw hex form and backup listing for
// operators, with Prometheus metrics on the side.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/connset/connset/pkg/store"
)

// NewRouter builds the full route tree: /metrics unprotected for scraping,
// everything under /api/v1 behind the API key.
func NewRouter(st store.Store, config ServerConfig) chi.Router {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	server := NewServer(st, config, metrics)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey, metrics))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Get("/settings", metrics.InstrumentHandler("GET", "/api/v1/settings", server.handleGetSettings))
		r.Put("/settings", metrics.InstrumentHandler("PUT", "/api/v1/settings", server.handlePutSettings))
		r.Get("/settings/raw", metrics.InstrumentHandler("GET", "/api/v1/settings/raw", server.handleRawSettings))

		r.Get("/backups", metrics.InstrumentHandler("GET", "/api/v1/backups", server.handleListBackups))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(st store.Store, config ServerConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting settings API on %s\n", addr)
	return http.ListenAndServe(addr, NewRouter(st, config))
}
