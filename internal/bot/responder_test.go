package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bestvpnai/relaybot/internal/config"
	"github.com/bestvpnai/relaybot/internal/openwebui"
	"github.com/bestvpnai/relaybot/internal/telegram"
)

type fakeCompleter struct {
	answer string
	err    error
	calls  int
	asked  string
}

func (f *fakeCompleter) Ask(_ context.Context, text string) (string, error) {
	f.calls++
	f.asked = text
	return f.answer, f.err
}

type fakeSender struct {
	sent []telegram.SendMessageRequest
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, req telegram.SendMessageRequest) (*telegram.Message, error) {
	f.sent = append(f.sent, req)
	if f.err != nil {
		return nil, f.err
	}
	return &telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: req.ChatID}}, nil
}

func newTestResponder(t *testing.T, completer *fakeCompleter, sender *fakeSender) *Responder {
	t.Helper()

	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:ABC-def")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResponder(completer, sender, cfg, logger)
}

func textUpdate(chatID int64, text string) *telegram.Update {
	return &telegram.Update{
		UpdateID: 7,
		Message: &telegram.Message{
			MessageID: 11,
			Chat:      telegram.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

func TestStartCommand(t *testing.T) {
	completer := &fakeCompleter{}
	sender := &fakeSender{}
	r := newTestResponder(t, completer, sender)

	if err := r.HandleUpdate(context.Background(), textUpdate(42, "/start")); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if completer.calls != 0 {
		t.Errorf("upstream called %d times, want 0", completer.calls)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].ChatID != 42 {
		t.Errorf("ChatID = %d, want 42", sender.sent[0].ChatID)
	}
	if sender.sent[0].Text != r.replies.Welcome {
		t.Errorf("Text = %q, want welcome reply", sender.sent[0].Text)
	}
}

func TestHelpCommand(t *testing.T) {
	sender := &fakeSender{}
	r := newTestResponder(t, &fakeCompleter{}, sender)

	if err := r.HandleUpdate(context.Background(), textUpdate(42, "/help")); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].Text != r.replies.Help {
		t.Errorf("Text = %q, want help reply", sender.sent[0].Text)
	}
}

func TestCommandWithBotSuffixAndArgs(t *testing.T) {
	sender := &fakeSender{}
	r := newTestResponder(t, &fakeCompleter{}, sender)

	for _, text := range []string{"/start@relay_bot", "/start now please"} {
		sender.sent = nil
		if err := r.HandleUpdate(context.Background(), textUpdate(42, text)); err != nil {
			t.Fatalf("HandleUpdate(%q): %v", text, err)
		}
		if len(sender.sent) != 1 || sender.sent[0].Text != r.replies.Welcome {
			t.Errorf("input %q did not produce the welcome reply", text)
		}
	}
}

func TestRelayUpstreamReply(t *testing.T) {
	completer := &fakeCompleter{answer: "Hi there"}
	sender := &fakeSender{}
	r := newTestResponder(t, completer, sender)

	if err := r.HandleUpdate(context.Background(), textUpdate(42, "Hello")); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if completer.calls != 1 {
		t.Fatalf("upstream called %d times, want 1", completer.calls)
	}
	if completer.asked != "Hello" {
		t.Errorf("asked = %q, want %q", completer.asked, "Hello")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].ChatID != 42 {
		t.Errorf("ChatID = %d, want 42", sender.sent[0].ChatID)
	}
	if sender.sent[0].Text != "Hi there" {
		t.Errorf("Text = %q, want upstream reply unmodified", sender.sent[0].Text)
	}
	if sender.sent[0].ParseMode != "Markdown" {
		t.Errorf("ParseMode = %q, want %q", sender.sent[0].ParseMode, "Markdown")
	}
}

func TestUpstreamFailureSendsFallback(t *testing.T) {
	for name, upstreamErr := range map[string]error{
		"timeout":   openwebui.ErrTimeout,
		"http":      &openwebui.StatusError{Code: 502, Body: "bad gateway"},
		"malformed": openwebui.ErrMalformed,
	} {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			r := newTestResponder(t, &fakeCompleter{err: upstreamErr}, sender)

			if err := r.HandleUpdate(context.Background(), textUpdate(42, "Hello")); err != nil {
				t.Fatalf("HandleUpdate: %v", err)
			}

			if len(sender.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sender.sent))
			}
			if sender.sent[0].Text != r.replies.Fallback {
				t.Errorf("Text = %q, want fallback reply", sender.sent[0].Text)
			}
		})
	}
}

func TestEmptyTextGetsNotice(t *testing.T) {
	completer := &fakeCompleter{}
	sender := &fakeSender{}
	r := newTestResponder(t, completer, sender)

	if err := r.HandleUpdate(context.Background(), textUpdate(42, "")); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if completer.calls != 0 {
		t.Errorf("upstream called %d times, want 0", completer.calls)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if sender.sent[0].Text != r.replies.TextOnly {
		t.Errorf("Text = %q, want text-only notice", sender.sent[0].Text)
	}
}

func TestUpdateWithoutMessageIsSkipped(t *testing.T) {
	completer := &fakeCompleter{}
	sender := &fakeSender{}
	r := newTestResponder(t, completer, sender)

	if err := r.HandleUpdate(context.Background(), &telegram.Update{UpdateID: 9}); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if completer.calls != 0 || len(sender.sent) != 0 {
		t.Error("update without message must not produce any outbound call")
	}
}

func TestEditedMessageIsHandled(t *testing.T) {
	completer := &fakeCompleter{answer: "edited reply"}
	sender := &fakeSender{}
	r := newTestResponder(t, completer, sender)

	update := &telegram.Update{
		UpdateID: 8,
		EditedMessage: &telegram.Message{
			Chat: telegram.Chat{ID: 42},
			Text: "edited question",
		},
	}
	if err := r.HandleUpdate(context.Background(), update); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}

	if completer.asked != "edited question" {
		t.Errorf("asked = %q, want the edited text", completer.asked)
	}
}

func TestSendFailureIsReturned(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	r := newTestResponder(t, &fakeCompleter{answer: "hi"}, sender)

	if err := r.HandleUpdate(context.Background(), textUpdate(42, "Hello")); err == nil {
		t.Fatal("HandleUpdate = nil, want send error")
	}
}

func TestCommandParsing(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "/start"},
		{"/start@relay_bot", "/start"},
		{"  /help  ", "/help"},
		{"/help me", "/help"},
		{"hello", ""},
		{"", ""},
		{"not /start", ""},
	}
	for _, tt := range tests {
		if got := command(tt.text); got != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
