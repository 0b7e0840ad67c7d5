package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"baakh/internal/api/interfaces"
	"baakh/internal/api/middlewares"
	"baakh/internal/api/models"
	"baakh/internal/database"
	"baakh/internal/database/repositories"

	"github.com/gin-gonic/gin"
)

// Login exchanges a username and password for a bearer token
func Login(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.ErrBadRequest("Invalid request format").WithDetails(err.Error()))
			return
		}

		log := services.GetLogger()
		user, err := services.AuthService().Authenticate(c.Request.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, interfaces.ErrAuthUnavailable):
			respondError(c, models.ErrServiceUnavailable("Authentication requires a configured database"))
			return
		case errors.Is(err, interfaces.ErrInvalidCredentials):
			log.SecurityLogger("login_failed", "", "username="+req.Username+" ip="+c.ClientIP())
			respondError(c, models.NewAPIError(models.ErrCodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized))
			return
		case err != nil:
			log.Error("Login failed", "username", req.Username, "error", err)
			respondError(c, models.ErrInternal("Failed to authenticate"))
			return
		}

		if repo := services.UserRepository(); repo != nil {
			if err := repo.UpdateLastLogin(c.Request.Context(), user.ID); err != nil {
				log.Warning("Failed to update last login", "user_id", user.ID, "error", err)
			}
		}

		resp, apiErr := issue(services, user)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		services.RecordAudit(c.Request.Context(), database.AuditLog{
			Action:    "login",
			UserID:    strconv.FormatInt(user.ID, 10),
			Resource:  "auth",
			Details:   "role=" + user.Role,
			IPAddress: c.ClientIP(),
		})

		respondOK(c, resp, "Login successful")
	}
}

// Me returns the authenticated user
func Me(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middlewares.ClaimsFromContext(c)
		if !ok {
			respondError(c, models.NewAPIError(models.ErrCodeUnauthorized, "Authentication required", http.StatusUnauthorized))
			return
		}

		user, apiErr := currentUser(c, services, claims)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}
		respondOK(c, userResponse(user), "")
	}
}

// RefreshToken issues a fresh token for a still valid one
func RefreshToken(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middlewares.ClaimsFromContext(c)
		if !ok {
			respondError(c, models.NewAPIError(models.ErrCodeUnauthorized, "Authentication required", http.StatusUnauthorized))
			return
		}

		user, apiErr := currentUser(c, services, claims)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		resp, apiErr := issue(services, user)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}
		respondOK(c, resp, "Token refreshed")
	}
}

// currentUser re-reads the user when a database is configured so that
// deactivated accounts and role changes take effect. Without a database the
// claims are all there is.
func currentUser(c *gin.Context, services interfaces.Services, claims *interfaces.Claims) (*database.User, *models.APIError) {
	id, idErr := strconv.ParseInt(claims.UserID, 10, 64)

	repo := services.UserRepository()
	if repo == nil {
		return &database.User{ID: id, Username: claims.Username, Role: claims.Role, IsActive: true}, nil
	}
	if idErr != nil {
		return nil, models.NewAPIError(models.ErrCodeInvalidToken, "Token subject is not a user", http.StatusUnauthorized)
	}

	user, err := repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !user.IsActive) {
		return nil, models.NewAPIError(models.ErrCodeUnauthorized, "User no longer active", http.StatusUnauthorized)
	}
	if err != nil {
		services.GetLogger().Error("Failed to load user", "user_id", id, "error", err)
		return nil, models.ErrInternal("Failed to load user")
	}
	return user, nil
}

func issue(services interfaces.Services, user *database.User) (*models.AuthResponse, *models.APIError) {
	signed, claims, err := services.AuthService().IssueToken(user)
	if err != nil {
		services.GetLogger().Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, models.ErrInternal("Failed to issue token")
	}

	var expiresIn int64
	if claims.ExpiresAt > 0 {
		expiresIn = claims.ExpiresAt - claims.IssuedAt
	}
	return &models.AuthResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		ExpiresAt: claims.ExpiresAt,
		User:      userResponse(user),
	}, nil
}

func userResponse(user *database.User) *models.UserResponse {
	resp := &models.UserResponse{
		ID:       strconv.FormatInt(user.ID, 10),
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
	if user.LastLogin != nil {
		ts := user.LastLogin.Unix()
		resp.LastLogin = &ts
	}
	return resp
}
