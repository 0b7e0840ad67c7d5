package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"baakh/internal/database"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

const userColumns = `id, username, email, password_hash, full_name, role,
               is_active, last_login, created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	query := r.db.Dialect.Rebind(`
        INSERT INTO users (username, email, password_hash, full_name, role, is_active)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id
    `)
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash,
		user.FullName, user.Role, user.IsActive).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}

// GetByUsername returns an active user.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*database.User, error) {
	query := r.db.Dialect.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE username = ? AND is_active = true
    `)
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*database.User, error) {
	query := r.db.Dialect.Rebind(`
        SELECT ` + userColumns + `
        FROM users
        WHERE id = ?
    `)
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := r.db.Dialect.Rebind(`
        UPDATE users
        SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *UserRepository) scanOne(row *sql.Row) (*database.User, error) {
	var user database.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Role, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
