package service

import (
	"strings"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
)

const bearerPrefix = "Bearer "

// Gate resolves the identity behind an Authorization header value.
type Gate struct {
	codec TokenCodec
}

func NewGate(codec TokenCodec) *Gate {
	return &Gate{codec: codec}
}

// Authorize accepts either the raw token or "Bearer <token>". Every
// failure is reported as ErrUnauthenticated so callers never learn why a
// token was rejected.
func (g *Gate) Authorize(rawHeader string) (*domain.Identity, error) {
	token := strings.TrimSpace(rawHeader)
	if len(token) > len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	if token == "" {
		return nil, autherror.ErrUnauthenticated
	}

	identity, err := g.codec.Parse(token)
	if err != nil {
		// Malformed and expired tokens look the same from the outside.
		return nil, autherror.ErrUnauthenticated
	}

	return identity, nil
}
