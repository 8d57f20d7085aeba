package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/", g.handleIndex())
	r.Get("/health", g.handleHealth())
	r.Post("/webhook", g.handleWebhook())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
