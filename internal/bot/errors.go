package bot

import (
	"errors"

	"github.com/bestvpnai/relaybot/internal/openwebui"
)

// errorReason maps an upstream error onto a stable metrics label.
func errorReason(err error) string {
	var statusErr *openwebui.StatusError
	switch {
	case errors.Is(err, openwebui.ErrTimeout):
		return "timeout"
	case errors.Is(err, openwebui.ErrMalformed):
		return "malformed"
	case errors.As(err, &statusErr):
		return "http"
	default:
		return "other"
	}
}
