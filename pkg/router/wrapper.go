package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/ws"
	"github.com/questx-lab/agora/pkg/xcontext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newRequestContext(router, w, r)
		defer runClosers(router, &ctx)

		if r.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Method %s is not allowed", r.Method))
			return
		}

		var err error
		if ctx, err = runMiddlewares(ctx, router.befores); err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		var req Request
		if err := parseRequest(r, method, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request format"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = withResponse(ctx, resp)
		if ctx, err = runMiddlewares(ctx, router.afters); err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}
	}
}

func wrapWebsocket(router *Router, handler WebsocketHandleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newRequestContext(router, w, r)

		ctx, err := runMiddlewares(ctx, router.befores)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			runClosers(router, &ctx)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot upgrade websocket: %v", err)
			return
		}

		// The connection has been hijacked, closers must not write a body.
		ctx = xcontext.WithHTTPWriter(ctx, nil)
		defer runClosers(router, &ctx)

		if err := handler(ctx, ws.NewClient(conn)); err != nil {
			ctx = xcontext.WithError(ctx, err)
		}
	}
}

func newRequestContext(router *Router, w http.ResponseWriter, r *http.Request) context.Context {
	var ctx context.Context = requestContext{Context: r.Context(), values: router.ctx}
	ctx = xcontext.WithHTTPRequest(ctx, r)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithStartTime(ctx, time.Now())
	return ctx
}

// requestContext is cancelled with the request and falls back to the values of
// the router context.
type requestContext struct {
	context.Context
	values context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func runClosers(router *Router, ctx *context.Context) {
	for i := len(router.closers) - 1; i >= 0; i-- {
		router.closers[i](*ctx)
	}
}

func parseRequest(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet:
		return decodeQuery(r, req)

	case http.MethodPost:
		err := json.NewDecoder(r.Body).Decode(req)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	return errors.New("unsupported method")
}

func decodeQuery(r *http.Request, req any) error {
	query := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			query[key] = values[0]
		} else {
			query[key] = values
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           req,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(query)
}
