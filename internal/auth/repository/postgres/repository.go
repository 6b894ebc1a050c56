package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, realm, username, password_hash, first_name, last_name, email, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Realm, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByRealmAndUsername(ctx context.Context, realm, username string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE realm = $1 AND username = $2
		LIMIT 1;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, realm, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by realm and username: %w", err)
	}

	return user, nil
}

// UpdateProfile writes the profile fields in one statement, so concurrent
// updates of the same row are serialized by the row lock.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, realm, username string, profile domain.Profile) (*domain.User, error) {
	query := `
		UPDATE users
		SET first_name = $3, last_name = $4, email = $5, updated_at = now()
		WHERE realm = $1 AND username = $2
		RETURNING ` + userColumns + `;
	`
	user, err := scanUser(r.db.QueryRow(ctx, query, realm, username, profile.FirstName, profile.LastName, profile.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, realm, username, ip_address, attempt_time, successful)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Realm, a.Username, a.IPAddress, a.AttemptTime, a.Successful)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}
