package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/router"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type AuthVerifier struct {
	revokedTokenRepo repository.RevokedTokenRepository
	required         bool
}

func NewAuthVerifier(revokedTokenRepo repository.RevokedTokenRepository) *AuthVerifier {
	return &AuthVerifier{revokedTokenRepo: revokedTokenRepo}
}

// WithRequired makes the middleware reject requests without a valid token.
// Otherwise such requests continue as the anonymous user.
func (a *AuthVerifier) WithRequired() *AuthVerifier {
	return &AuthVerifier{revokedTokenRepo: a.revokedTokenRepo, required: true}
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := tokenFromRequest(ctx)
		if token == "" {
			if a.required {
				return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
			}

			return ctx, nil
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired access token")
		}

		revoked, err := a.revokedTokenRepo.IsRevoked(ctx, token)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check revoked token: %v", err)
			return nil, errorx.Unknown
		}

		if revoked {
			return nil, errorx.New(errorx.TokenRevoked, "The access token has been revoked")
		}

		ctx = xcontext.WithAccessToken(ctx, token)
		ctx = xcontext.WithRequestUserID(ctx, accessToken.ID)
		return ctx, nil
	}
}

// tokenFromRequest reads the bearer token of the Authorization header, then
// falls back to the access token cookie.
func tokenFromRequest(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	return cookie.Value
}

// SetAccessTokenCookie stores the token of a login response in a cookie for
// browser clients.
func SetAccessTokenCookie() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		resp, ok := router.Response(ctx).(*model.LoginResponse)
		if !ok {
			return ctx, nil
		}

		w := xcontext.HTTPWriter(ctx)
		if w == nil {
			return ctx, nil
		}

		cfg := xcontext.Configs(ctx).Auth.AccessToken
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.Name,
			Value:    resp.AccessToken,
			Path:     "/",
			MaxAge:   int(cfg.Expiration.Seconds()),
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		return ctx, nil
	}
}
