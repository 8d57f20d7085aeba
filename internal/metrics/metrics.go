// Package metrics declares the Prometheus collectors for the relay. The
// gateway serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts webhook updates received, including malformed ones.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relaybot",
		Name:      "updates_total",
		Help:      "Webhook updates received, by decode result.",
	}, []string{"result"})

	// RepliesTotal counts outbound Telegram replies by kind.
	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relaybot",
		Name:      "replies_total",
		Help:      "Telegram replies sent, by kind.",
	}, []string{"kind"})

	// UpstreamErrorsTotal counts failed chat-completion calls by reason.
	UpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relaybot",
		Name:      "upstream_errors_total",
		Help:      "Failed chat-completion requests, by reason.",
	}, []string{"reason"})

	// UpstreamLatency observes chat-completion request duration in seconds.
	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "relaybot",
		Name:      "upstream_request_seconds",
		Help:      "Chat-completion request duration.",
		Buckets:   prometheus.DefBuckets,
	})

	// SendErrorsTotal counts failed Telegram sendMessage calls.
	SendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "relaybot",
		Name:      "send_errors_total",
		Help:      "Failed Telegram sendMessage calls.",
	})
)

// Reply kinds for RepliesTotal.
const (
	ReplyCommand  = "command"
	ReplyUpstream = "upstream"
	ReplyFallback = "fallback"
	ReplyNotice   = "notice"
)
