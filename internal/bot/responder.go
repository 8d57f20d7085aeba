// Package bot turns incoming Telegram updates into replies. It decides
// between canned command replies and the upstream chat completion, and sends
// at most one message back per update.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bestvpnai/relaybot/internal/config"
	"github.com/bestvpnai/relaybot/internal/metrics"
	"github.com/bestvpnai/relaybot/internal/telegram"
)

// Completer produces an assistant reply for a user message.
type Completer interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Sender delivers a message to a Telegram chat.
type Sender interface {
	SendMessage(ctx context.Context, req telegram.SendMessageRequest) (*telegram.Message, error)
}

// Responder handles one update at a time. It holds no per-request state and
// is safe for concurrent use.
type Responder struct {
	upstream  Completer
	sender    Sender
	replies   config.Replies
	parseMode string
	logger    *slog.Logger
}

// NewResponder creates a Responder.
func NewResponder(upstream Completer, sender Sender, cfg *config.Config, logger *slog.Logger) *Responder {
	return &Responder{
		upstream:  upstream,
		sender:    sender,
		replies:   cfg.Replies,
		parseMode: cfg.Telegram.ParseMode,
		logger:    logger,
	}
}

// HandleUpdate dispatches a single update. Updates without a usable message
// are skipped silently; every other path sends exactly one reply. Upstream
// failures are logged and replaced by the fallback reply, they are never
// returned to the webhook caller.
func (r *Responder) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	msg := update.Message
	if msg == nil {
		msg = update.EditedMessage
	}
	if msg == nil || msg.Chat.ID == 0 {
		r.logger.Debug("skipping update without message", "update_id", update.UpdateID)
		return nil
	}

	reply, kind := r.replyFor(ctx, msg)
	return r.send(ctx, msg.Chat.ID, reply, kind)
}

// replyFor picks the reply text for a message and reports the reply kind.
func (r *Responder) replyFor(ctx context.Context, msg *telegram.Message) (string, string) {
	switch command(msg.Text) {
	case "/start":
		return r.replies.Welcome, metrics.ReplyCommand
	case "/help":
		return r.replies.Help, metrics.ReplyCommand
	}

	if strings.TrimSpace(msg.Text) == "" {
		return r.replies.TextOnly, metrics.ReplyNotice
	}

	start := time.Now()
	answer, err := r.upstream.Ask(ctx, msg.Text)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		r.logger.Error("upstream completion failed",
			"chat", msg.Chat.ID,
			"error", err,
		)
		return r.replies.Fallback, metrics.ReplyFallback
	}

	return answer, metrics.ReplyUpstream
}

// send delivers the reply and records the outcome.
func (r *Responder) send(ctx context.Context, chatID int64, text, kind string) error {
	_, err := r.sender.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: r.parseMode,
	})
	if err != nil {
		metrics.SendErrorsTotal.Inc()
		r.logger.Error("send message failed", "chat", chatID, "error", err)
		return err
	}

	metrics.RepliesTotal.WithLabelValues(kind).Inc()
	return nil
}

// command extracts the bot command from a message text: the first
// whitespace-separated token with any @botname suffix stripped. Returns ""
// when the text is not a command.
func command(text string) string {
	token, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	if !strings.HasPrefix(token, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(token, "@")
	return cmd
}
