// Package observability bundles the structured logger and the
// Prometheus metrics shared by the HTTP layer, the realtime hub, and
// the background sweeps.
package observability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

// NewLogger builds the production logger: JSON output, ISO8601
// timestamps, level taken from configuration.
func NewLogger(level string) (*zap.Logger, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsedLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var parsed zapcore.Level
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "" {
		normalized = "info"
	}

	if err := parsed.UnmarshalText([]byte(normalized)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return parsed, nil
}

// WithRequestID stamps the per-request identifier into the context so
// downstream log lines can be correlated with the response header.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the identifier set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	requestID, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || requestID == "" {
		return "", false
	}

	return requestID, true
}

// WithContextLogger returns the logger annotated with the request
// identifier carried by ctx, or the logger unchanged when none is set.
func WithContextLogger(logger *zap.Logger, ctx context.Context) *zap.Logger {
	if logger == nil {
		return nil
	}

	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		return logger
	}

	return logger.With(zap.String("requestId", requestID))
}
