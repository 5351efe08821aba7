package telemetry

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with helpers for the fields this service logs
// repeatedly. All output goes to stderr: stdout carries the MCP protocol
// stream and must stay clean.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a Logger from the given config. The level is applied
// process-wide so SetGlobalLevel can change verbosity at runtime without
// rebuilding every derived logger.
func NewLogger(cfg LoggingConfig) *Logger {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	var logger zerolog.Logger
	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stderr)
	}

	logger = logger.With().Timestamp().Logger()
	if cfg.EnableCaller {
		logger = logger.With().Caller().Logger()
	}

	return &Logger{logger: logger}
}

// NewComponentLogger creates a Logger tagged with a component name.
func NewComponentLogger(cfg LoggingConfig, component string) *Logger {
	l := NewLogger(cfg)
	return &Logger{logger: l.logger.With().Str("component", component).Logger()}
}

// WithQuoteID returns a logger with the quote id attached.
func (l *Logger) WithQuoteID(id int64) *Logger {
	return &Logger{logger: l.logger.With().Int64("quote_id", id).Logger()}
}

// WithTool returns a logger with the tool name attached.
func (l *Logger) WithTool(name string) *Logger {
	return &Logger{logger: l.logger.With().Str("tool", name).Logger()}
}

// WithResource returns a logger with the resource URI attached.
func (l *Logger) WithResource(uri string) *Logger {
	return &Logger{logger: l.logger.With().Str("resource", uri).Logger()}
}

// WithRequestID returns a logger with a per-call request id attached.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{logger: l.logger.With().Str("request_id", id).Logger()}
}

// WithField returns a logger with an arbitrary key/value attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

// WithContext returns a copy of ctx carrying this logger.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.logger.WithContext(ctx)
}

// FromContext retrieves the logger stored in ctx, or a default logger when
// none is present.
func FromContext(ctx context.Context) *Logger {
	return &Logger{logger: *zerolog.Ctx(ctx)}
}

func (l *Logger) Trace(msg string) { l.logger.Trace().Msg(msg) }
func (l *Logger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.logger.Error().Msg(msg) }
func (l *Logger) Fatal(msg string) { l.logger.Fatal().Msg(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

// Zerolog exposes the underlying zerolog.Logger for callers that need the
// full event API.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.logger
}

// SetGlobalLevel adjusts the process-wide zerolog level floor at runtime.
// Used by config reload to change verbosity without restarting.
func SetGlobalLevel(level string) {
	zerolog.SetGlobalLevel(parseLogLevel(level))
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
