package service

//go:generate mockgen -destination=../../mocks/mock_token_codec.go -package=mocks github.com/AnthoniusHendriyanto/realm-auth/internal/auth/service TokenCodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when no ttl is configured.
const DefaultTokenTTL = 24 * time.Hour

type TokenCodec interface {
	Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error)
	Parse(tokenString string) (*domain.Identity, error)
}

type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Realm    string `json:"realm"`
	Username string `json:"username"`
}

func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for identity that expires ttl from now.
func (ts *TokenService) Issue(identity domain.Identity, ttl time.Duration) (string, time.Time, error) {
	now := ts.now()
	expiresAt := now.Add(ttl)

	claims := JWTCustomClaims{
		Realm:    identity.Realm,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   identity.Realm + "/" + identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Parse verifies signature and expiry and returns the embedded identity.
// Expired tokens fail with ErrTokenExpired, anything else with ErrTokenMalformed.
func (ts *TokenService) Parse(tokenString string) (*domain.Identity, error) {
	claims := &JWTCustomClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", autherror.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", autherror.ErrTokenMalformed, err)
	}

	if !token.Valid {
		return nil, autherror.ErrTokenMalformed
	}

	if claims.Realm == "" || claims.Username == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing subject claims", autherror.ErrTokenMalformed)
	}

	return &domain.Identity{
		Realm:     claims.Realm,
		Username:  claims.Username,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
