// Package main is the entry point for the relaybot CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bestvpnai/relaybot/internal/bot"
	"github.com/bestvpnai/relaybot/internal/config"
	"github.com/bestvpnai/relaybot/internal/gateway"
	"github.com/bestvpnai/relaybot/internal/openwebui"
	"github.com/bestvpnai/relaybot/internal/telegram"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const apiCallTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "relaybot",
		Short:        "A webhook relay between Telegram and an OpenWebUI chat-completions API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "relaybot.yaml", "Path to configuration file")
	root.AddCommand(versionCmd(), serveCmd(), webhookCmd(), configCmd())
	return root
}

// loadConfig reads .env if present, then loads and validates configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// Local-development convenience; deployments set real env vars.
	_ = godotenv.Load()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("relaybot %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Telegram webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			level, _ := cmd.Flags().GetString("log-level")
			logger := newLogger(level)

			tg := telegram.NewClient(cfg.Telegram)
			upstream := openwebui.NewClient(cfg.Upstream)
			responder := bot.NewResponder(upstream, tg, cfg, logger)
			gw := gateway.New(cfg, responder, logger)

			// Best-effort identity check; a Telegram outage must not keep
			// the webhook from coming up.
			meCtx, cancel := context.WithTimeout(cmd.Context(), apiCallTimeout)
			if me, err := tg.GetMe(meCtx); err != nil {
				logger.Warn("could not verify bot identity", "error", err)
			} else {
				logger.Info("serving as bot", "username", me.Username, "model", upstream.Model())
			}
			cancel()

			if err := gw.Start(); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("shutdown signal received", "signal", sig.String())

			if err := gw.Stop(context.Background()); err != nil {
				return err
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
	cmd.Flags().String("log-level", "info", "Minimum log level (debug, info, warn, error)")
	return cmd
}

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Register the webhook URL with Telegram",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			url, _ := cmd.Flags().GetString("url")
			if url == "" {
				return fmt.Errorf("--url is required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), apiCallTimeout)
			defer cancel()

			tg := telegram.NewClient(cfg.Telegram)
			err = tg.SetWebhook(ctx, telegram.SetWebhookRequest{
				URL:            url,
				SecretToken:    cfg.Telegram.WebhookSecret,
				AllowedUpdates: []string{"message", "edited_message"},
			})
			if err != nil {
				return err
			}
			fmt.Printf("Webhook set to %s\n", url)
			return nil
		},
	}
	set.Flags().String("url", "", "Public HTTPS URL of the /webhook endpoint")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook registration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), apiCallTimeout)
			defer cancel()

			if err := telegram.NewClient(cfg.Telegram).DeleteWebhook(ctx); err != nil {
				return err
			}
			fmt.Println("Webhook deleted")
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("Configuration OK (upstream %s, model %s, bind %s)\n",
				cfg.Upstream.BaseURL, cfg.Upstream.Model, cfg.Gateway.Bind)
			return nil
		},
	})
	return cmd
}
