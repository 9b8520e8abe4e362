package hostfuncs

import (
	"context"
	"log/slog"
	"time"
)

// Middleware is a function that wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON, so a failing call never takes the
// host down with it.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs host function invocations
// at debug level and failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := "unknown"
			effectful := false
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
				effectful = hc.Function().Effectful
			}

			start := time.Now()
			resp, err := next(ctx, payload)
			if err != nil {
				logger.ErrorContext(ctx, "host function failed", "function", funcName, "error", err)
				return resp, err
			}
			logger.DebugContext(ctx, "host function completed",
				"function", funcName,
				"effectful", effectful,
				"duration", time.Since(start),
			)
			return resp, nil
		}
	}
}
