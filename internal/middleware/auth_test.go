package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_AuthVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	revokedTokenRepo := repository.NewRevokedTokenRepository(testutil.NewMemoryRedisClient())
	verifier := NewAuthVerifier(revokedTokenRepo)

	token, err := xcontext.TokenEngine(ctx).Generate(time.Minute, model.AccessToken{ID: "user1", Username: "user1"})
	require.NoError(t, err)

	revokedToken, err := xcontext.TokenEngine(ctx).Generate(time.Minute, model.AccessToken{ID: "user2", Username: "user2"})
	require.NoError(t, err)
	require.NoError(t, revokedTokenRepo.Revoke(ctx, revokedToken, time.Now().Add(time.Minute)))

	testCases := []struct {
		name     string
		required bool
		setup    func(r *http.Request)
		wantUser string
		wantCode errorx.Code
	}{
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantUser: "user1",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
			},
			wantUser: "user1",
		},
		{
			name:     "anonymous",
			setup:    func(r *http.Request) {},
			wantUser: "",
		},
		{
			name:     "anonymous on required route",
			required: true,
			setup:    func(r *http.Request) {},
			wantCode: errorx.Unauthenticated,
		},
		{
			name:     "invalid token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer invalid") },
			wantCode: errorx.Unauthenticated,
		},
		{
			name:     "revoked token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revokedToken) },
			wantCode: errorx.TokenRevoked,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/getMe", nil)
			tt.setup(req)

			v := verifier
			if tt.required {
				v = verifier.WithRequired()
			}

			newCtx, err := v.Middleware()(xcontext.WithHTTPRequest(ctx, req))
			if tt.wantCode != 0 {
				require.Error(t, err)
				require.True(t, errorx.Is(err, tt.wantCode), "unexpected error: %v", err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantUser, xcontext.RequestUserID(newCtx))
		})
	}
}
