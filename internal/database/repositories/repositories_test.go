package repositories

import (
	"context"
	"testing"

	"baakh/internal/database"
	"baakh/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	return dbtest.Open(t)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &database.User{
		Username:     "ayaz",
		Email:        "ayaz@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Shaikh Ayaz",
		Role:         "admin",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetByUsername(ctx, "ayaz")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.Nil(t, got.LastLogin)

	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, repo.Create(ctx, &database.User{Username: "ayaz", PasswordHash: "x"}))
}

func TestUserRepository_InactiveUsersCannotBeFoundByName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &database.User{Username: "retired", PasswordHash: "x", Role: "editor", IsActive: false}
	require.NoError(t, repo.Create(ctx, user))

	_, err := repo.GetByUsername(ctx, "retired")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestDictionaryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := db.Exec(`
        INSERT INTO romanizer (word, correction, deleted_at) VALUES
            ('سنڌ', 'Sindh', NULL),
            ('ڀٽائي', 'Bhittai', NULL),
            ('پراڻو', 'old', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	repo := NewDictionaryRepository(db, "romanizer")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := map[string]string{}
	for _, e := range entries {
		got[e.Word] = e.Correction
		assert.Nil(t, e.DeletedAt)
	}
	assert.Equal(t, map[string]string{"سنڌ": "Sindh", "ڀٽائي": "Bhittai"}, got)

	_, err = NewDictionaryRepository(db, "missing_table").Count(ctx)
	assert.Error(t, err)
}

func TestAuditLogRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)

	for _, action := range []string{"login", "dictionary_reload", "dictionary_export"} {
		entry := &database.AuditLog{Action: action, UserID: "1", Resource: "dictionary", IPAddress: "127.0.0.1"}
		require.NoError(t, repo.InsertAuditLog(ctx, entry))
		assert.NotZero(t, entry.ID)
	}

	all, err := repo.GetRecent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "dictionary_export", all[0].Action)

	reloads, err := repo.GetRecent(ctx, "dictionary_reload", 0)
	require.NoError(t, err)
	require.Len(t, reloads, 1)
	assert.Equal(t, "127.0.0.1", reloads[0].IPAddress)
}
