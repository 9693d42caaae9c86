package router

import (
	"context"
	"net/http"

	"github.com/questx-lab/agora/config"
	"github.com/questx-lab/agora/pkg/ws"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. The returned context replaces
// the current one, a non-nil error stops the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, whether it failed or not.
type CloserFunc func(ctx context.Context)

type WebsocketHandleFunc func(ctx context.Context, c *ws.Client) error

type Router struct {
	ctx context.Context
	mux *http.ServeMux

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose requests inherit the values of ctx (database,
// logger, configurations).
func New(ctx context.Context) *Router {
	return &Router{
		ctx:     ctx,
		mux:     http.NewServeMux(),
		closers: []CloserFunc{handleResponse()},
	}
}

// Branch returns a router sharing the same routes but owning a copy of the
// middleware chains, so middlewares added to it do not leak to the parent.
func (r *Router) Branch() *Router {
	clone := &Router{
		ctx: r.ctx,
		mux: r.mux,
	}

	clone.befores = append(clone.befores, r.befores...)
	clone.afters = append(clone.afters, r.afters...)
	clone.closers = append(clone.closers, r.closers...)
	return clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler(cfg config.ServerConfigs) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowCORS,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodPost, handler))
}

func Websocket(r *Router, pattern string, handler WebsocketHandleFunc) {
	r.mux.Handle(pattern, wrapWebsocket(r, handler))
}
