package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// SlogManager owns the process-wide structured logger. It fans records out
// to the console, a session log file and, when a provider is given, the OTel
// log bridge.
type SlogManager struct {
	logger *slog.Logger

	// kept so Flush can drain the exporter before shutdown
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates an unconfigured manager; call Setup before use.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup wires the console, file and optional OTel handlers behind one
// MultiHandler. A nil provider disables the OTel leg; a nil file disables the
// file leg. Timestamps are rendered as UTC RFC3339 on every leg.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, handlerOpts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}
	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler("spacecar-sim", otelslog.WithLoggerProvider(provider)))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush drains buffered OTel log records.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
