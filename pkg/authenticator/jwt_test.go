package authenticator_test

import (
	"testing"
	"time"

	"github.com/questx-lab/agora/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, accessToken{ID: "abc"})
	require.Nil(t, err)

	var info accessToken
	err = engine.Verify(token, &info)
	require.NoError(t, err)
	require.Equal(t, "abc", info.ID)

	expiresAt, err := engine.ExpiresAt(token)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(-time.Second, accessToken{ID: "abc"})
	require.Nil(t, err)

	var info accessToken
	err = engine.Verify(token, &info)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine("secret").Generate(time.Minute, accessToken{ID: "abc"})
	require.NoError(t, err)

	var info accessToken
	err = authenticator.NewTokenEngine("other").Verify(token, &info)
	require.Error(t, err)
}
