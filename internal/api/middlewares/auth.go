package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/models"
	"baakh/internal/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextUserRole = "user_role"
	ContextClaims   = "claims"
)

// AuthRequired middleware validates bearer JWT tokens
func AuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abortAuth(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Authorization token required")
			return
		}

		claims, err := services.AuthService().ValidateToken(raw)
		if err != nil {
			code := models.ErrCodeInvalidToken
			if errors.Is(err, token.ErrExpired) {
				code = models.ErrCodeTokenExpired
			}
			services.GetLogger().SecurityLogger("token_rejected", "", string(token.CodeOf(err)))
			abortAuth(c, http.StatusUnauthorized, code, tokenMessage(err))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RoleRequired middleware admits only the listed roles. It must run after
// AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = true
	}

	return func(c *gin.Context) {
		role := strings.ToLower(c.GetString(ContextUserRole))
		if role == "" || !allowed[role] {
			abortAuth(c, http.StatusForbidden, models.ErrCodeForbidden, "Insufficient role for this resource")
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by AuthRequired.
func ClaimsFromContext(c *gin.Context) (*interfaces.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*interfaces.Claims)
	return claims, ok
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString("request_id"),
	})
}

// tokenMessage exposes the stable token error message and nothing of the
// underlying cause.
func tokenMessage(err error) string {
	var te *token.Error
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return "invalid token"
}

// extractToken extracts JWT token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
