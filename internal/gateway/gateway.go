// Package gateway is the HTTP surface of the relay: the Telegram webhook,
// the health and index endpoints, and the Prometheus exposition.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/bestvpnai/relaybot/internal/config"
	"github.com/bestvpnai/relaybot/internal/telegram"
)

// UpdateHandler processes a decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *telegram.Update) error
}

// Gateway owns the HTTP server. It holds no per-request state; the handler
// it dispatches to is safe for concurrent use.
type Gateway struct {
	config  config.Gateway
	secret  string
	handler UpdateHandler
	logger  *slog.Logger
	server  *http.Server
}

// New creates a Gateway serving the given update handler.
func New(cfg *config.Config, handler UpdateHandler, logger *slog.Logger) *Gateway {
	return &Gateway{
		config:  cfg.Gateway,
		secret:  cfg.Telegram.WebhookSecret,
		handler: handler,
		logger:  logger,
	}
}

// Start binds the listen address and serves in a background goroutine.
// A bind failure is returned synchronously so startup can abort.
func (g *Gateway) Start() error {
	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts the server down within the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
