package gateway

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bestvpnai/relaybot/internal/metrics"
	"github.com/bestvpnai/relaybot/internal/telegram"
)

// maxBodyBytes caps webhook body reads. Telegram updates are small; anything
// larger is not Telegram.
const maxBodyBytes = 1 << 20

// handleWebhook returns the handler for POST /webhook. Telegram expects a
// 200 acknowledgment for every delivery — returning an error status triggers
// redelivery storms — so everything short of a secret-token mismatch is
// acknowledged, including bodies that do not parse and updates whose
// handling fails internally.
func (g *Gateway) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.secret != "" {
			token := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
			if subtle.ConstantTimeCompare([]byte(g.secret), []byte(token)) != 1 {
				// Wrong secret means the request is not from Telegram;
				// the acknowledgment contract does not apply.
				http.Error(w, "invalid secret token", http.StatusUnauthorized)
				return
			}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			g.logger.Warn("webhook body read failed", "error", err)
			metrics.UpdatesTotal.WithLabelValues("malformed").Inc()
			ack(w)
			return
		}

		var update telegram.Update
		if err := json.Unmarshal(body, &update); err != nil {
			g.logger.Warn("webhook update does not parse", "error", err)
			metrics.UpdatesTotal.WithLabelValues("malformed").Inc()
			ack(w)
			return
		}

		metrics.UpdatesTotal.WithLabelValues("ok").Inc()

		if err := g.handler.HandleUpdate(r.Context(), &update); err != nil {
			g.logger.Error("update handling failed", "update_id", update.UpdateID, "error", err)
		}

		ack(w)
	}
}

// ack writes the 200 acknowledgment Telegram expects.
func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
