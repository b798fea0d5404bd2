package notification

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// KindWelcome is sent to a member right after registration.
	KindWelcome = "member_welcome"
)

// Message describes a notification payload.
type Message struct {
	Kind        string            `json:"kind"`
	Destination string            `json:"destination"`
	Body        string            `json:"body"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the logger. Used when no broker is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger with the destination masked.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	attrs := []slog.Attr{
		slog.String("kind", message.Kind),
		slog.String("destination", maskEmail(message.Destination)),
		slog.String("body", message.Body),
	}
	for k, v := range message.Attributes {
		attrs = append(attrs, slog.String(k, v))
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "notification", attrs...)
	return nil
}

// maskEmail keeps the first letter of the local part: maria@example.pt -> m***@example.pt.
func maskEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return addr
	}
	return local[:1] + "***@" + domain
}
