// Package jwt implements issuing and parsing of the signed bearer tokens
// used as stateless sessions.
//
// A token embeds the user UID as subject plus the issued-at and expiry
// timestamps, and is sealed with a server-side secret (HS256). Nothing
// about issued tokens is persisted: a token is valid exactly while its
// signature matches and its expiry has not passed.
package jwt

import (
	"errors"
	"time"
)

// Sentinel errors returned by ParseToken. Callers distinguish an expired
// token from every other kind of invalid token.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Maker describes issuing and parsing of bearer tokens.
type Maker interface {
	// GenerateToken issues a signed token for the given user UID.
	GenerateToken(userUID string) (string, error)
	// ParseToken verifies signature and expiry and returns the claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl implements Maker with an HS256 secret key and a fixed token
// lifetime.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker creates a MakerImpl from the signing secret and token TTL.
// The secret is required configuration; config loading refuses to start
// the process without it.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
