package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"baakh/internal/api/interfaces"
	"baakh/internal/database"
	"baakh/internal/database/repositories"
	"baakh/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	claimUsername = "username"
	claimRole     = "role"
)

// dummyHash is compared against when the user does not exist so that
// unknown usernames take as long as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("baakh-timing-equaliser"), bcrypt.DefaultCost)

// ValidateToken implements the AuthServiceInterface. Errors are *token.Error
// values so callers can tell an expired token from a forged one.
func (s *Services) ValidateToken(raw string) (*interfaces.Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

	claims, err := s.Codec.Verify(raw)
	if err != nil {
		return nil, err
	}

	userID := claims.Subject()
	if userID == "" {
		return nil, fmt.Errorf("%w: missing sub claim", token.ErrMalformed)
	}
	role, ok := claims.String(claimRole)
	if !ok || role == "" {
		return nil, fmt.Errorf("%w: missing role claim", token.ErrMalformed)
	}
	username, _ := claims.String(claimUsername)
	jti, _ := claims.String(token.ClaimID)
	iat, _ := claims.Int64(token.ClaimIssuedAt)
	exp, _ := claims.Int64(token.ClaimExpiresAt)

	return &interfaces.Claims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenID:   jti,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}

// IssueToken signs a token for user with the configured lifetime.
func (s *Services) IssueToken(user *database.User) (string, *interfaces.Claims, error) {
	signed, err := s.Codec.Sign(token.Claims{
		token.ClaimSubject: strconv.FormatInt(user.ID, 10),
		token.ClaimID:      uuid.NewString(),
		claimUsername:      user.Username,
		claimRole:          user.Role,
	})
	if err != nil {
		return "", nil, err
	}

	claims, err := s.ValidateToken(signed)
	if err != nil {
		return "", nil, fmt.Errorf("verify issued token: %w", err)
	}
	return signed, claims, nil
}

// Authenticate checks username and password against the user table.
func (s *Services) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	if s.userRepository == nil {
		return nil, interfaces.ErrAuthUnavailable
	}

	user, err := s.userRepository.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, interfaces.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, interfaces.ErrInvalidCredentials
	}
	return user, nil
}
