package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_revokedTokenRepository(t *testing.T) {
	ctx := context.Background()
	redisClient := testutil.NewMemoryRedisClient()

	var gotTTL time.Duration
	set := redisClient.SetFunc
	redisClient.SetFunc = func(ctx context.Context, key, value string, ttl time.Duration) error {
		gotTTL = ttl
		return set(ctx, key, value, ttl)
	}

	repo := repository.NewRevokedTokenRepository(redisClient)

	revoked, err := repo.IsRevoked(ctx, "token")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "token", time.Now().Add(time.Hour)))
	require.Greater(t, gotTTL, 59*time.Minute)

	revoked, err = repo.IsRevoked(ctx, "token")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "other-token")
	require.NoError(t, err)
	require.False(t, revoked)

	// Already expired tokens need no blacklist entry.
	require.NoError(t, repo.Revoke(ctx, "expired", time.Now().Add(-time.Minute)))
	revoked, err = repo.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	require.False(t, revoked)
}
