// Package logger provides structured logging with automatic secret redaction.
//
// It wraps log/slog with a process-wide DefaultLogger, level and format
// selection from the environment (LOG_LEVEL, LOG_FORMAT), helpers for model
// calls, and redaction of API keys that may leak into error strings from
// provider SDKs.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
)

// DefaultLogger is the global structured logger instance.
var DefaultLogger *slog.Logger

func init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Configure replaces DefaultLogger. format is "json" or "text" (default).
// Call it once at startup, before serving.
func Configure(level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	DefaultLogger = slog.New(h)
}

// Info logs an informational message with key-value attributes.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// DebugContext logs a debug-level message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// WarnContext logs a warning with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs an error.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// Err returns an "error" attribute with secrets redacted from the message.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", RedactSensitiveData(err.Error()))
}

// ModelCall logs a completed model call.
func ModelCall(ctx context.Context, provider, operation string, took time.Duration, attrs ...any) {
	all := make([]any, 0, 6+len(attrs))
	all = append(all,
		"provider", provider,
		"operation", operation,
		"took", took,
	)
	all = append(all, attrs...)
	DefaultLogger.InfoContext(ctx, "model call", all...)
}

// ModelError logs a failed model call.
func ModelError(ctx context.Context, provider, operation string, err error, attrs ...any) {
	all := make([]any, 0, 6+len(attrs))
	all = append(all,
		"provider", provider,
		"operation", operation,
		Err(err),
	)
	all = append(all, attrs...)
	DefaultLogger.ErrorContext(ctx, "model call failed", all...)
}

var apiKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),   // OpenAI API keys
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{35}`),   // Google API keys
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), // Bearer tokens
	regexp.MustCompile(`key=[a-zA-Z0-9_-]{20,}`),  // query-string keys
}

// RedactSensitiveData masks API keys and bearer tokens in s, keeping the
// first four characters of a key for debugging.
func RedactSensitiveData(s string) string {
	for _, pattern := range apiKeyPatterns {
		s = pattern.ReplaceAllStringFunc(s, func(match string) string {
			if strings.HasPrefix(match, "Bearer") {
				return "Bearer [REDACTED]"
			}
			return match[:4] + "...[REDACTED]"
		})
	}
	return s
}
