package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type responseKey struct{}

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func withResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

// Response returns the handler response of the request, if any. It is only set
// for after middlewares and closers.
func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func handleResponse() CloserFunc {
	return func(ctx context.Context) {
		w := xcontext.HTTPWriter(ctx)
		if w == nil {
			return
		}

		err := func() error {
			if err := xcontext.Error(ctx); err != nil {
				return err
			}

			if resp := Response(ctx); resp != nil {
				if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
				}
			}

			return nil
		}()

		if err != nil {
			status, resp := newErrorResponse(err)
			if err := WriteJson(w, status, resp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
			}
		}
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
