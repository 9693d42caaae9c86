package repository

import (
	"context"
	"time"

	"github.com/questx-lab/agora/pkg/crypto"
	"github.com/questx-lab/agora/pkg/xredis"
)

const revokedTokenPrefix = "revoked_token:"

// RevokedTokenRepository is the logout blacklist. An entry lives until the
// token it revokes would have expired anyway.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type revokedTokenRepository struct {
	redisClient xredis.Client
}

func NewRevokedTokenRepository(redisClient xredis.Client) *revokedTokenRepository {
	return &revokedTokenRepository{redisClient: redisClient}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return r.redisClient.Set(ctx, revokedTokenKey(token), "1", ttl)
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.redisClient.Exist(ctx, revokedTokenKey(token))
}

func revokedTokenKey(token string) string {
	return revokedTokenPrefix + crypto.SHA256([]byte(token))
}
