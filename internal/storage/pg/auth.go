package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	internal_errors "github.com/pulsepost-dev/pulsepost/internal/errors"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser inserts a new user record. A concurrent insert with the same
// email loses on the unique index and surfaces as a 409.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// UserByEmail fetches a user by email, matched case-insensitively.
func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.userBy(s.db, "lower(email) = lower($1)", email)
}

// UserById fetches a user by primary key.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userBy(s.db, "id = $1", id)
}

// UpdateLoginGuard persists the failed-attempt counter and lockout
// deadline produced by the account guard.
func (s *Storage) UpdateLoginGuard(id domain.UserId, attempts int, lockUntil *time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateLoginGuard(tx, id, attempts, lockUntil)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow(
		"INSERT INTO users(username, email, password_hash, role) VALUES($1, $2, $3, $4) RETURNING id",
		user.Username, user.Email, user.PassHash, user.Role,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "User already exists with this email", StatusCode: http.StatusConflict}
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) userBy(q Querier, where string, arg interface{}) (domain.User, error) {
	var user domain.User
	var lockUntil sql.NullTime
	err := q.QueryRow(
		"SELECT id, username, email, password_hash, role, login_attempts, lock_until, created_at, updated_at FROM users WHERE "+where,
		arg,
	).Scan(&user.Id, &user.Username, &user.Email, &user.PassHash, &user.Role,
		&user.LoginAttempts, &lockUntil, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		user.LockUntil = &t
	}
	return user, nil
}

func (s *Storage) updateLoginGuard(q Querier, id domain.UserId, attempts int, lockUntil *time.Time) error {
	var lock sql.NullTime
	if lockUntil != nil {
		lock = sql.NullTime{Time: *lockUntil, Valid: true}
	}
	result, err := q.Exec(
		"UPDATE users SET login_attempts = $1, lock_until = $2, updated_at = now() WHERE id = $3",
		attempts, lock, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update login guard: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for login guard update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
