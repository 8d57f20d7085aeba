// Package config loads and validates the relay configuration. Settings come
// from an optional YAML file overlaid with environment variables; the
// environment always wins, so the secrets stay deployable without a file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// tokenPattern matches the Telegram bot token format: <digits>:<alphanum+dash>.
var tokenPattern = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)

// Config is the full relay configuration.
type Config struct {
	Gateway  Gateway  `yaml:"gateway"`
	Upstream Upstream `yaml:"upstream"`
	Telegram Telegram `yaml:"telegram"`
	Replies  Replies  `yaml:"replies"`
}

// Gateway holds HTTP server configuration.
type Gateway struct {
	Bind            string        `yaml:"bind" env:"BIND_ADDR"`
	Port            string        `yaml:"-" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Upstream holds the OpenWebUI chat-completions endpoint configuration.
type Upstream struct {
	BaseURL   string        `yaml:"base_url" env:"OPENWEBUI_BASE_URL"`
	APIKey    string        `yaml:"api_key" env:"OPENWEBUI_API_KEY"`
	Model     string        `yaml:"model" env:"OPENWEBUI_MODEL"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" env:"OPENWEBUI_TIMEOUT"`
}

// Telegram holds the Bot API configuration.
type Telegram struct {
	Token         string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	APIURL        string        `yaml:"api_url" env:"TELEGRAM_API_URL"`
	WebhookSecret string        `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`
	ParseMode     string        `yaml:"parse_mode"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Replies holds the canned user-facing strings. They are file-configurable
// so deployments can localize them without a rebuild.
type Replies struct {
	Welcome  string `yaml:"welcome"`
	Help     string `yaml:"help"`
	Fallback string `yaml:"fallback"`
	TextOnly string `yaml:"text_only"`
}

// Load reads the config file at path (skipped when path is empty or the file
// does not exist), overlays environment variables, and applies defaults.
// The result still needs Validate before use.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Env-only deployment; nothing to merge.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.defaults()
	return cfg, nil
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Gateway.Port != "" {
		c.Gateway.Bind = ":" + c.Gateway.Port
	}
	if c.Gateway.Bind == "" {
		c.Gateway.Bind = ":8080"
	}
	if c.Gateway.ReadTimeout <= 0 {
		c.Gateway.ReadTimeout = 10 * time.Second
	}
	if c.Gateway.WriteTimeout <= 0 {
		// Must outlast the upstream timeout or replies get cut off mid-request.
		c.Gateway.WriteTimeout = 60 * time.Second
	}
	if c.Gateway.ShutdownTimeout <= 0 {
		c.Gateway.ShutdownTimeout = 5 * time.Second
	}

	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://bestvpnai.org"
	}
	c.Upstream.BaseURL = trimTrailingSlash(c.Upstream.BaseURL)
	if c.Upstream.Model == "" {
		c.Upstream.Model = "llama3.1"
	}
	if c.Upstream.Timeout <= 0 {
		c.Upstream.Timeout = 30 * time.Second
	}

	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = "https://api.telegram.org"
	}
	c.Telegram.APIURL = trimTrailingSlash(c.Telegram.APIURL)
	if c.Telegram.ParseMode == "" {
		c.Telegram.ParseMode = "Markdown"
	}
	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = 10 * time.Second
	}

	if c.Replies.Welcome == "" {
		c.Replies.Welcome = defaultWelcome
	}
	if c.Replies.Help == "" {
		c.Replies.Help = defaultHelp
	}
	if c.Replies.Fallback == "" {
		c.Replies.Fallback = defaultFallback
	}
	if c.Replies.TextOnly == "" {
		c.Replies.TextOnly = defaultTextOnly
	}
}

// Validate returns an error describing the first fatal configuration
// problem. Callers must treat any error as a startup failure.
func Validate(c *Config) error {
	if c.Telegram.Token == "" {
		return errors.New("config: telegram token is required (set TELEGRAM_BOT_TOKEN)")
	}
	if !tokenPattern.MatchString(c.Telegram.Token) {
		return errors.New("config: telegram token format invalid (expected <bot_id>:<hash>)")
	}
	if err := checkHTTPURL("telegram api_url", c.Telegram.APIURL); err != nil {
		return err
	}
	if err := checkHTTPURL("upstream base_url", c.Upstream.BaseURL); err != nil {
		return err
	}
	if c.Upstream.MaxTokens < 0 {
		return errors.New("config: upstream max_tokens must not be negative")
	}
	return nil
}

func checkHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("config: %s must be a valid http/https URL, got %q", field, raw)
	}
	return nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
