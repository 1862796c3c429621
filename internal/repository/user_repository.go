package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser stores a new user.
func (r *UserRepository) InsertUser(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO users (id, username, email)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Email); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID. Returns apperrors.ErrUserNotFound when absent.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (model.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		WHERE id = ?
	`
	var u model.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// UserExists reports whether a user with the given ID exists.
func (r *UserRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userID)
}

// UsernameExists reports whether the username is taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username)
}

// EmailExists reports whether the email address is registered.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
}

func exists(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var found bool
	if err := db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return found, nil
}
