package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"baakh/internal/api/middlewares"
	"baakh/internal/api/models"
	"baakh/internal/database"
	"baakh/internal/database/dbtest"
	"baakh/internal/dictionary"
	"baakh/internal/token"
	"baakh/pkg/config"
	"baakh/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// Sindhi fixtures, written as escapes so the bytes are unambiguous.
const (
	wordSindh    = "\u0633\u0646\u068C"
	hehInside    = "\u06AA\u0647\u0699\u0648"
	hehCorrected = "\u06AA\u06BE\u0699\u0648"
	letterSeen   = "\u0633"
	letterBe     = "\u0628"
)

type testEnv struct {
	router   *gin.Engine
	services *Services
	db       *database.DB
	dictPath string
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *models.ErrorInfo `json:"error"`
}

func testConfig(dictPath string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			DictionaryTable: "romanizer",
		},
		Security: config.SecurityConfig{
			JWTSecret:     testSecret,
			JWTExpiration: time.Hour,
			AdminRoles:    []string{"admin"},
		},
		API: config.APIConfig{
			RateLimit:     1000,
			MaxTextLength: 50,
			CORS: config.CORSConfig{
				AllowedOrigins: []string{"https://baakh.example"},
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Authorization", "Content-Type"},
			},
		},
		Dictionary: config.DictionaryConfig{Path: dictPath},
	}
}

func newTestEnv(t *testing.T, withDB bool, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dictPath := filepath.Join(t.TempDir(), "romanizer-dictionary.txt")
	require.NoError(t, os.WriteFile(dictPath, []byte(wordSindh+"|Sindh\n"), 0o644))

	cfg := testConfig(dictPath)
	for _, m := range mutate {
		m(cfg)
	}

	store := dictionary.NewStore(dictPath)
	require.NoError(t, store.Load())

	var db *database.DB
	if withDB {
		db = dbtest.Open(t)
	}

	services, err := NewServices(db, store, logger.Discard(), cfg)
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router, services, middlewares.NewRateLimiter(cfg.API.RateLimit, cfg.API.BurstLimit))

	return &testEnv{router: router, services: services, db: db, dictPath: dictPath}
}

func (e *testEnv) do(t *testing.T, method, path, body, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (e *testEnv) createUser(t *testing.T, username, password, role string) *database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &database.User{Username: username, PasswordHash: string(hash), Role: role, IsActive: true}
	require.NoError(t, e.services.UserRepository().Create(context.Background(), user))
	return user
}

func (e *testEnv) tokenFor(t *testing.T, sub, role string) string {
	t.Helper()
	signed, err := e.services.Codec.Sign(token.Claims{"sub": sub, "role": role, "username": "tester"})
	require.NoError(t, err)
	return signed
}

func TestTextEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	t.Run("romanize uses dictionary", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/text/romanize", `{"text":"`+wordSindh+` `+wordSindh+`"}`, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, resp.Success)

		var data struct {
			Original       string `json:"original"`
			Romanized      string `json:"romanized"`
			Mode           string `json:"mode"`
			DictionaryHits int    `json:"dictionary_hits"`
			Words          int    `json:"words"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "Sindh Sindh", data.Romanized)
		assert.Equal(t, "smart", data.Mode)
		assert.Equal(t, 2, data.DictionaryHits)
		assert.Equal(t, 2, data.Words)
	})

	t.Run("hesudhar", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/text/hesudhar", `{"text":"`+hehInside+`","mode":"global"}`, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data struct {
			Hesudhar     string `json:"hesudhar"`
			Replacements int    `json:"replacements"`
			Mode         string `json:"mode"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, hehCorrected, data.Hesudhar)
		assert.Equal(t, 1, data.Replacements)
		assert.Equal(t, "global", data.Mode)
	})

	t.Run("transliterate", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/text/transliterate", `{"word":"`+wordSindh+`"}`, "")
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Roman string `json:"roman"`
			Found bool   `json:"found"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "Sindh", data.Roman)
		assert.True(t, data.Found)
	})

	bad := map[string]struct {
		path string
		body string
	}{
		"missing text":     {"/api/v1/text/romanize", `{}`},
		"empty text":       {"/api/v1/text/romanize", `{"text":""}`},
		"non-string text":  {"/api/v1/text/romanize", `{"text":5}`},
		"unknown mode":     {"/api/v1/text/hesudhar", `{"text":"` + hehInside + `","mode":"aggressive"}`},
		"too long":         {"/api/v1/text/romanize", `{"text":"` + strings.Repeat(letterSeen, 51) + `"}`},
		"not json":         {"/api/v1/text/romanize", `text=abc`},
		"missing word":     {"/api/v1/text/transliterate", `{}`},
		"hesudhar no text": {"/api/v1/text/hesudhar", `{"mode":"smart"}`},
	}
	for name, tt := range bad {
		t.Run(name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, models.ErrCodeInvalidRequest, resp.Error.Code)
			assert.False(t, resp.Success)
		})
	}

	t.Run("limit counts runes not bytes", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/api/v1/text/romanize", `{"text":"`+strings.Repeat(letterSeen, 50)+`"}`, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware_ErrorCodes(t *testing.T) {
	env := newTestEnv(t, false)

	w, resp := env.do(t, http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, resp.Error.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeInvalidToken, resp.Error.Code)

	forged, err := token.Sign(token.Claims{"sub": "1", "role": "admin"}, "some-other-secret-some-other-secret")
	require.NoError(t, err)
	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeInvalidToken, resp.Error.Code)

	expired, err := token.Sign(token.Claims{
		"sub":  "1",
		"role": "admin",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}, testSecret)
	require.NoError(t, err)
	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeTokenExpired, resp.Error.Code)

	noRole, err := token.Sign(token.Claims{"sub": "1"}, testSecret)
	require.NoError(t, err)
	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", noRole)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeInvalidToken, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "role")
}

func TestLoginMeRefresh(t *testing.T) {
	env := newTestEnv(t, true)
	user := env.createUser(t, "editor1", "s3cret-pass", "editor")

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"editor1","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeInvalidCredentials, resp.Error.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"nobody","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeInvalidCredentials, resp.Error.Code)

	w, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"editor1"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"editor1","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	assert.Equal(t, "Bearer", auth.TokenType)
	assert.Equal(t, int64(3600), auth.ExpiresIn)
	assert.Equal(t, "editor", auth.User.Role)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), auth.User.ID)

	claims, err := token.Verify(auth.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), claims.Subject())
	jti, ok := claims.String("jti")
	assert.True(t, ok)
	assert.NotEmpty(t, jti)

	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", auth.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, "editor1", me.Username)
	assert.NotNil(t, me.LastLogin)

	w, resp = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", auth.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed models.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Data, &refreshed))
	assert.NotEqual(t, auth.Token, refreshed.Token)

	// Deactivated users cannot refresh.
	_, err = env.db.Exec(`UPDATE users SET is_active = 0 WHERE id = ?`, user.ID)
	require.NoError(t, err)
	w, _ = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", auth.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The editor role is not an admin role here.
	w, resp = env.do(t, http.MethodGet, "/api/v1/admin/dictionary", "", auth.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.ErrCodeForbidden, resp.Error.Code)

	logs, err := env.services.AuditLogRepository().GetRecent(context.Background(), "login", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), logs[0].UserID)
}

func TestWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, false)

	w, resp := env.do(t, http.MethodPost, "/api/v1/auth/login", `{"username":"a","password":"b"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, models.ErrCodeServiceUnavailable, resp.Error.Code)

	admin := env.tokenFor(t, "cli-admin", "admin")

	w, _ = env.do(t, http.MethodPost, "/api/v1/admin/dictionary/export", "", admin)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/v1/admin/audit", "", admin)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Claims alone back /me when there is no user table.
	w, resp = env.do(t, http.MethodGet, "/api/v1/auth/me", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, "admin", me.Role)
}

func TestDictionaryAdmin(t *testing.T) {
	env := newTestEnv(t, true)
	admin := env.tokenFor(t, "1", "admin")

	w, resp := env.do(t, http.MethodGet, "/api/v1/admin/dictionary", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	var status models.DictionaryStatusResponse
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, 1, status.Entries)
	assert.Equal(t, env.dictPath, status.Path)
	require.NotNil(t, status.DatabaseRows)
	assert.Equal(t, 0, *status.DatabaseRows)

	t.Run("failed reload keeps table", func(t *testing.T) {
		require.NoError(t, os.WriteFile(env.dictPath, []byte("no separator here\n"), 0o644))
		w, resp := env.do(t, http.MethodPost, "/api/v1/admin/dictionary/reload", "", admin)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, models.ErrCodeDictionaryReload, resp.Error.Code)

		roman, found := env.services.Romanizer().Transliterate(wordSindh)
		assert.True(t, found)
		assert.Equal(t, "Sindh", roman)
	})

	t.Run("export then reload", func(t *testing.T) {
		_, err := env.db.Exec(`INSERT INTO romanizer (word, correction) VALUES (?, ?), (?, ?)`,
			wordSindh, "Sindhu", hehCorrected, "kharo")
		require.NoError(t, err)
		_, err = env.db.Exec(`INSERT INTO romanizer (word, correction, deleted_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			letterBe, "gone")
		require.NoError(t, err)

		w, resp := env.do(t, http.MethodPost, "/api/v1/admin/dictionary/export", "", admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var export models.DictionaryExportResponse
		require.NoError(t, json.Unmarshal(resp.Data, &export))
		assert.Equal(t, 2, export.Rows)
		assert.Equal(t, 2, export.Written)
		assert.Equal(t, 2, export.Dictionary.Entries)

		roman, found := env.services.Romanizer().Transliterate(wordSindh)
		assert.True(t, found)
		assert.Equal(t, "Sindhu", roman)
		_, found = env.services.Romanizer().Transliterate(letterBe)
		assert.False(t, found)
	})

	t.Run("audit trail", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/admin/audit?action=dictionary_export", "", admin)
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Logs []models.AuditLogResponse `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.Logs, 1)
		assert.Equal(t, "1", data.Logs[0].UserID)
		assert.Contains(t, data.Logs[0].Details, "written=2")

		w, _ = env.do(t, http.MethodGet, "/api/v1/admin/audit?limit=-3", "", admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthAndStatus(t *testing.T) {
	env := newTestEnv(t, true)

	w, _ := env.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health models.HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "connected", health.Checks["database"].Message)

	w, resp := env.do(t, http.MethodGet, "/api/v1/public/status", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status models.SystemStatusResponse
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "connected", status.DatabaseStatus)
	assert.Equal(t, 1, status.Dictionary.Entries)
	assert.Empty(t, status.Dictionary.Path)

	require.NoError(t, env.db.Close())
	w, _ = env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGlobalMiddleware(t *testing.T) {
	env := newTestEnv(t, false, func(cfg *config.Config) {
		cfg.API.RateLimit = 2
	})

	for i := 0; i < 2; i++ {
		w, _ := env.do(t, http.MethodGet, "/api/v1/public/status", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	}

	w, resp := env.do(t, http.MethodGet, "/api/v1/public/status", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.ErrCodeRateLimitExceeded, resp.Error.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health checks are not rate limited.
	w, _ = env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/text/romanize", nil)
	req.Header.Set("Origin", "https://baakh.example")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://baakh.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, false)

	w, resp := env.do(t, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))
}
