package interfaces

import (
	"context"
	"errors"

	"baakh/internal/database"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAuthUnavailable is returned when no user database is configured.
	ErrAuthUnavailable = errors.New("authentication backend unavailable")
)

// Claims represents the verified JWT claims of a back-office user
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenID   string `json:"token_id"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

type AuthServiceInterface interface {
	ValidateToken(token string) (*Claims, error)
	IssueToken(user *database.User) (string, *Claims, error)
	Authenticate(ctx context.Context, username, password string) (*database.User, error)
}
