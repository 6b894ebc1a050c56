package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ domain.UserRepository = (*Repository)(nil)

func seeded(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository()
	require.NoError(t, r.Put(domain.User{
		Realm:        "x",
		Username:     "bruce",
		PasswordHash: "hash",
		FirstName:    "Bruce",
		LastName:     "Wayne",
		Email:        "bruce@wayneenterprises.com",
	}))
	return r
}

func TestRepository_GetByRealmAndUsername(t *testing.T) {
	r := seeded(t)
	ctx := context.Background()

	u, err := r.GetByRealmAndUsername(ctx, "x", "bruce")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	t.Run("username is scoped by realm", func(t *testing.T) {
		_, err := r.GetByRealmAndUsername(ctx, "y", "bruce")
		assert.ErrorIs(t, err, autherror.ErrNotFound)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		u.FirstName = "Changed"
		again, err := r.GetByRealmAndUsername(ctx, "x", "bruce")
		require.NoError(t, err)
		assert.Equal(t, "Bruce", again.FirstName)
	})
}

func TestRepository_Put(t *testing.T) {
	r := NewRepository()
	assert.Error(t, r.Put(domain.User{Username: "bruce"}))
	assert.Error(t, r.Put(domain.User{Realm: "x"}))
}

func TestRepository_UpdateProfile(t *testing.T) {
	r := seeded(t)
	ctx := context.Background()

	updated, err := r.UpdateProfile(ctx, "x", "bruce", domain.Profile{
		FirstName: "Bruce",
		LastName:  "Wayne",
		Email:     "updatedemail@wayneenterprises.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "updatedemail@wayneenterprises.com", updated.Email)
	assert.Equal(t, "hash", updated.PasswordHash)

	stored, err := r.GetByRealmAndUsername(ctx, "x", "bruce")
	require.NoError(t, err)
	assert.Equal(t, "updatedemail@wayneenterprises.com", stored.Email)

	_, err = r.UpdateProfile(ctx, "x", "joker", domain.Profile{})
	assert.ErrorIs(t, err, autherror.ErrNotFound)
}

func TestRepository_ConcurrentUpdates(t *testing.T) {
	r := seeded(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.UpdateProfile(ctx, "x", "bruce", domain.Profile{
				FirstName: fmt.Sprintf("Bruce%d", i),
				LastName:  fmt.Sprintf("Wayne%d", i),
				Email:     fmt.Sprintf("bruce%d@wayneenterprises.com", i),
			})
		}(i)
	}
	wg.Wait()

	// Whole-record writes: the surviving fields all come from one update.
	u, err := r.GetByRealmAndUsername(ctx, "x", "bruce")
	require.NoError(t, err)
	var n int
	_, err = fmt.Sscanf(u.FirstName, "Bruce%d", &n)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Wayne%d", n), u.LastName)
	assert.Equal(t, fmt.Sprintf("bruce%d@wayneenterprises.com", n), u.Email)
}

func TestRepository_LoginAttempts(t *testing.T) {
	r := NewRepository()
	require.NoError(t, r.RecordLoginAttempt(context.Background(), domain.LoginAttempt{Username: "bruce"}))

	attempts := r.LoginAttempts()
	require.Len(t, attempts, 1)
	assert.Equal(t, "bruce", attempts[0].Username)
}

func TestRepository_LoginAttemptsAreBounded(t *testing.T) {
	r := NewRepository()
	r.attemptLimit = 3
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordLoginAttempt(ctx, domain.LoginAttempt{Username: fmt.Sprintf("user%d", i)}))
	}

	attempts := r.LoginAttempts()
	require.Len(t, attempts, 3)
	assert.Equal(t, "user2", attempts[0].Username)
	assert.Equal(t, "user3", attempts[1].Username)
	assert.Equal(t, "user4", attempts[2].Username)
}
