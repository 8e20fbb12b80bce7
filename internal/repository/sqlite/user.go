package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/record-crate/internal/apperror"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/repository"
)

// UserStore implements repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}
	return nil
}

// FindByUsername returns the user including the password hash. It is the
// login lookup; everything else should go through FindByID.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at
		 FROM users
		 WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: finding user %s: %w", username, err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at
		 FROM users
		 WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: finding user %s: %w", id, err)
	}
	return &user, nil
}

func (s *UserStore) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists int
	err := s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username = ?`,
		username,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username: %w", err)
	}
	return true, nil
}

// SetAdmin flips the admin flag and returns the updated user.
func (s *UserStore) SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error) {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE users SET is_admin = ? WHERE id = ?`,
		admin, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating admin flag for %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("user", userID)
	}
	return s.FindByID(ctx, userID)
}

func (s *UserStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.conn.QueryRowContext(ctx,
		`SELECT is_admin FROM users WHERE id = ?`,
		userID,
	).Scan(&isAdmin)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, apperror.NotFound("user", userID)
		}
		return false, fmt.Errorf("sqlite: checking admin flag: %w", err)
	}
	return isAdmin, nil
}

func (s *UserStore) ListAdmins(ctx context.Context) ([]model.User, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at
		 FROM users
		 WHERE is_admin = 1
		 ORDER BY username`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing admins: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}
