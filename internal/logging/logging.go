package logging

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey int8

const ctxKeyLogger ctxKey = iota

// New builds the process logger. Development loggers are human readable,
// production loggers write JSON.
func New(level string, development bool) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func WithLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, log)
}

// FromContext returns the request logger, or a no-op logger when the
// context carries none.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if log, ok := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger); ok {
		return log
	}

	return zap.NewNop().Sugar()
}

// Middleware puts a logger tagged with the request id on the request
// context. Access logging is left to chi's middleware.Logger.
func Middleware(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With("request_id", middleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), reqLog)))
		})
	}
}
