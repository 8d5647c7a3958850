// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldMethod    = "method"
	FieldCode      = "code"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldPeriod    = "period"
)

// Standard component names
const (
	ComponentApp     = "app"
	ComponentGRPC    = "grpc"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// ParseLevel maps a level name to slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New creates a logger writing to w
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// WithComponent returns a child logger tagged with a component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(FieldComponent, component)
}
