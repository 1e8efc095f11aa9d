// Package session issues and checks the opaque tokens that partition
// bookmarks between browsers. A token carries no identity; holding it is
// the only capability it grants.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Header is the request header a token travels in.
const Header = "X-Session-Token"

const prefix = "pms_"

// ErrInvalidToken reports a missing or malformed token.
var ErrInvalidToken = errors.New("invalid session token")

// New returns a fresh random token.
func New() string {
	return prefix + uuid.NewString()
}

// Validate checks that token has the shape New produces.
func Validate(token string) error {
	rest, ok := strings.CutPrefix(token, prefix)
	if !ok || len(rest) != 36 {
		return ErrInvalidToken
	}
	id, err := uuid.Parse(rest)
	if err != nil || id.Version() != 4 {
		return ErrInvalidToken
	}
	return nil
}

type ctxKey struct{}

// WithToken stores a validated token on ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// FromContext returns the token stored by WithToken.
func FromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok && token != ""
}
