package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the correlation id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func is deferred.
// Pass the named error result so failures are logged with it.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	log := zap.L().With(zap.String("req_id", RequestID(ctx)), zap.String("op", name))

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn("op failed", zap.Duration("dur", dur), zap.Error(*errp))
			return
		}
		log.Debug("op done", zap.Duration("dur", dur))
	}
}
