package gateway

import (
	"encoding/json"
	"net/http"
)

// serviceName identifies the relay in health and index responses.
const serviceName = "relaybot"

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// IndexResponse is the JSON response for GET /.
type IndexResponse struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// handleHealth returns an http.HandlerFunc for GET /health. It depends on
// nothing but the server being up: uptime probes must not flap with the
// upstream.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status:  "ok",
			Service: serviceName,
		})
	}
}

// handleIndex returns an http.HandlerFunc for GET /.
func (g *Gateway) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(IndexResponse{
			Name:        "BestVPN AI Telegram Bot",
			Status:      "running",
			Description: "Telegram bot powered by the OpenWebUI API",
		})
	}
}
