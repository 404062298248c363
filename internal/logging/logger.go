// Package logging configures log/slog for the server and the CLI.
//
// Loggers obtained through FromContext carry the chi request id and the
// client address of the request being served, so every line written while
// an analysis runs can be correlated back to one HTTP call.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup configures the default slog logger to write to stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination. The CLI logs to
// stderr so stdout stays clean for results.
func SetupWriter(w io.Writer, level, format string) {
	slog.SetDefault(slog.New(NewHandler(w, level, format)))
}

// NewHandler builds the text or JSON handler used by Setup.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type contextKey string

const ctxKeyClientIP contextKey = "client_ip"

// WithClientIP stores the caller address for FromContext.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIP returns the address stored by WithClientIP.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKeyClientIP).(string)
	return ip
}

// FromContext returns the default logger enriched with request_id and
// client_ip when the context carries them.
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("analysis started", "file_id", id)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if ip := ClientIP(ctx); ip != "" {
		logger = logger.With("client_ip", ip)
	}

	return logger
}

// WithFields returns a context logger with additional structured fields.
//
//	log := logging.WithFields(ctx, "file_id", id, "rows", n)
//	log.Info("analysis completed", "used_fallback", fallback)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
