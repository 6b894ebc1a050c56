// Package memory is an in-process credential store. It backs local runs
// with STORE_DRIVER=memory and end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/google/uuid"
)

type key struct {
	realm    string
	username string
}

// DefaultAttemptRetention is how many login attempts the store keeps. Older
// ones are overwritten.
const DefaultAttemptRetention = 10000

type Repository struct {
	mu           sync.RWMutex
	users        map[key]domain.User
	attempts     []domain.LoginAttempt
	nextAttempt  int
	attemptLimit int
	now          func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		users:        make(map[key]domain.User),
		attemptLimit: DefaultAttemptRetention,
		now:          time.Now,
	}
}

// Put stores a copy of user, replacing any record with the same
// (realm, username). A missing ID is generated.
func (r *Repository) Put(user domain.User) error {
	if user.Realm == "" || user.Username == "" {
		return fmt.Errorf("realm and username are required")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[key{user.Realm, user.Username}] = user
	return nil
}

func (r *Repository) Delete(realm, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, key{realm, username})
}

func (r *Repository) GetByRealmAndUsername(_ context.Context, realm, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[key{realm, username}]
	if !ok {
		return nil, autherror.ErrNotFound
	}
	return &u, nil
}

func (r *Repository) UpdateProfile(_ context.Context, realm, username string, profile domain.Profile) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{realm, username}
	u, ok := r.users[k]
	if !ok {
		return nil, autherror.ErrNotFound
	}
	u.FirstName = profile.FirstName
	u.LastName = profile.LastName
	u.Email = profile.Email
	u.UpdatedAt = r.now()
	r.users[k] = u

	return &u, nil
}

func (r *Repository) RecordLoginAttempt(_ context.Context, attempt domain.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.attempts) < r.attemptLimit {
		r.attempts = append(r.attempts, attempt)
		return nil
	}
	r.attempts[r.nextAttempt] = attempt
	r.nextAttempt = (r.nextAttempt + 1) % r.attemptLimit
	return nil
}

// LoginAttempts returns the retained attempts, oldest first.
func (r *Repository) LoginAttempts() []domain.LoginAttempt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LoginAttempt, 0, len(r.attempts))
	out = append(out, r.attempts[r.nextAttempt:]...)
	return append(out, r.attempts[:r.nextAttempt]...)
}
