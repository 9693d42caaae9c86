package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/agora/config"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/logger"
	"github.com/questx-lab/agora/pkg/router"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name"`
	Page int    `json:"page"`
}

type echoResponse struct {
	Name string `json:"name"`
	Page int    `json:"page"`
	User string `json:"user"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.NotFound, "Not found name")
	}

	return &echoResponse{Name: req.Name, Page: req.Page, User: xcontext.RequestUserID(ctx)}, nil
}

func newRouter() *router.Router {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	r := router.New(ctx)

	authRouter := r.Branch()
	authRouter.Before(func(ctx context.Context) (context.Context, error) {
		user := xcontext.HTTPRequest(ctx).Header.Get("X-User")
		if user == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Need authentication")
		}
		return xcontext.WithRequestUserID(ctx, user), nil
	})

	router.GET(r, "/getEcho", echo)
	router.POST(authRouter, "/postEcho", echo)
	return r
}

func serve(t *testing.T, req *http.Request) (int, envelope) {
	w := httptest.NewRecorder()
	newRouter().Handler(config.ServerConfigs{AllowCORS: []string{"*"}}).ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRouter_GET(t *testing.T) {
	status, resp := serve(t, httptest.NewRequest(http.MethodGet, "/getEcho?name=foo&page=2", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "foo", Page: 2}, resp.Data)
}

func TestRouter_Error(t *testing.T) {
	status, resp := serve(t, httptest.NewRequest(http.MethodGet, "/getEcho", nil))
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, int64(errorx.NotFound), resp.Code)
	require.Equal(t, "Not found name", resp.Error)
}

func TestRouter_WrongMethod(t *testing.T) {
	status, _ := serve(t, httptest.NewRequest(http.MethodPost, "/getEcho", nil))
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_BranchMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/postEcho", strings.NewReader(`{"name":"bar"}`))
	status, resp := serve(t, req)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/postEcho", strings.NewReader(`{"name":"bar"}`))
	req.Header.Set("X-User", "user1")
	status, resp = serve(t, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, echoResponse{Name: "bar", User: "user1"}, resp.Data)
}

func TestRouter_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/postEcho", strings.NewReader(`{"name":`))
	req.Header.Set("X-User", "user1")
	status, resp := serve(t, req)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}
