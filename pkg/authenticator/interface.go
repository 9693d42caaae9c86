package authenticator

import "time"

type TokenEngine interface {
	// Generate signs obj into a token which is valid for the given duration.
	Generate(expiration time.Duration, obj any) (string, error)

	// Verify checks the signature and the expiration of token, then decodes
	// its payload into obj.
	Verify(token string, obj any) error

	// ExpiresAt returns the expiration time of a valid token.
	ExpiresAt(token string) (time.Time, error)
}
