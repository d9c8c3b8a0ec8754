/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and routes. This is the
  wiring layer between URLs and handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Honest client IPs behind a reverse proxy
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the renderer
  6. Metrics:    Prometheus request metrics

ROUTES:
  /healthz        liveness, unauthenticated
  /metrics        prometheus scrape, unauthenticated
  /api/overview   read model (token required)
  /api/actions    mutations (token required)

SEE ALSO:
  - handlers.go: handler implementations
  - auth.go: the token check
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medcabinet/reserve-engine/metrics"
)

// NewRouter creates the router with all routes configured. authTokens
// guards everything under /api.
func NewRouter(h *Handler, authTokens []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(TokenAuth(authTokens))
		r.Route("/api", func(r chi.Router) {
			r.Get("/overview", h.Overview)
			r.Post("/actions", h.Action)
		})
	})

	return r
}
