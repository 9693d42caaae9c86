package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/agora/config"
	"github.com/questx-lab/agora/pkg/authenticator"
	"github.com/questx-lab/agora/pkg/logger"
)

type (
	httpRequestKey struct{}
	httpWriterKey  struct{}
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	dbTxKey        struct{}
	tokenEngineKey struct{}
	requestUserKey struct{}
	accessTokenKey struct{}
	errorKey       struct{}
	startTimeKey   struct{}
)

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return getValue[*http.Request](ctx, httpRequestKey{})
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return getValue[http.ResponseWriter](ctx, httpWriterKey{})
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return getValue[config.Configs](ctx, configsKey{})
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	return getValue[logger.Logger](ctx, loggerKey{})
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return getValue[authenticator.TokenEngine](ctx, tokenEngineKey{})
}

// WithRequestUserID stores the authenticated actor. An empty id means the
// request is anonymous.
func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	return getValue[string](ctx, requestUserKey{})
}

func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessToken(ctx context.Context) string {
	return getValue[string](ctx, accessTokenKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	return getValue[error](ctx, errorKey{})
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	return getValue[time.Time](ctx, startTimeKey{})
}

func getValue[T any](ctx context.Context, key any) T {
	v, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero
	}

	return v
}
