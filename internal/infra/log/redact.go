package logs

import (
	"context"
	"log/slog"
	"strings"
)

// Redaction replaces the value of every sensitive attribute.
const Redaction = "***"

// SensitiveKeys are the attribute keys whose values are masked before a
// record is emitted. Matching is case-insensitive and ignores separators, so
// "sessionToken", "session_token" and "SessionToken" all redact.
var SensitiveKeys = []string{"password", "newPassword", "hashedPassword", "sessionToken", "resetToken"}

// RedactingHandler is a slog.Handler middleware that masks the values of
// sensitive attributes on every record it forwards.
type RedactingHandler struct {
	inner slog.Handler
	keys  map[string]struct{}
}

// NewRedactingHandler wraps inner so that attributes named by keys are
// replaced with Redaction.
func NewRedactingHandler(inner slog.Handler, keys ...string) *RedactingHandler {
	normalized := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		normalized[normalizeKey(k)] = struct{}{}
	}

	return &RedactingHandler{inner: inner, keys: normalized}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler, rewriting sensitive attributes in place.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(h.redact(attr))

		return true
	})

	return h.inner.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		redacted = append(redacted, h.redact(attr))
	}

	return &RedactingHandler{inner: h.inner.WithAttrs(redacted), keys: h.keys}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), keys: h.keys}
}

func (h *RedactingHandler) redact(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		redacted := make([]slog.Attr, 0, len(members))
		for _, member := range members {
			redacted = append(redacted, h.redact(member))
		}

		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	}

	if _, sensitive := h.keys[normalizeKey(attr.Key)]; sensitive {
		return slog.String(attr.Key, Redaction)
	}

	return attr
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")

	return strings.ReplaceAll(key, "-", "")
}
