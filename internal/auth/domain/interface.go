package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_login_limiter.go -package=mocks github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain LoginLimiter

import (
	"context"
	"time"
)

// UserRepository is the credential store contract. Lookups of an unknown
// (realm, username) return errors.ErrNotFound.
type UserRepository interface {
	GetByRealmAndUsername(ctx context.Context, realm, username string) (*User, error)
	UpdateProfile(ctx context.Context, realm, username string, profile Profile) (*User, error)
	RecordLoginAttempt(ctx context.Context, attempt LoginAttempt) error
}

// LoginLimiter counts login attempts per key within a fixed window.
type LoginLimiter interface {
	// Hit counts one attempt and returns the number of attempts in the
	// current window, this one included. The window starts at the first hit.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}
