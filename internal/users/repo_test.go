package users

import (
	"context"
	"testing"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/pkg/db"
	"github.com/chatterboxhq/chatterbox-backend/pkg/enums"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  avatar_url TEXT,
  role TEXT NOT NULL DEFAULT 'USER',
  auth_provider TEXT NOT NULL DEFAULT 'EMAIL',
  auth_provider_id TEXT,
  password_hash TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (auth_provider, auth_provider_id)
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	hash := "$argon2id$stub"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: &hash,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, enums.UserRoleUser, created.Role)
	assert.Equal(t, enums.AuthProviderEmail, created.AuthProvider)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.DisplayName)
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", DisplayName: "First"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", DisplayName: "Second"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryFindByProviderIdentity(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	subject := "google-subject-1"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:          "bob@example.com",
		DisplayName:    "Bob",
		AuthProvider:   enums.AuthProviderGoogle,
		AuthProviderID: &subject,
	})
	require.NoError(t, err)

	found, err := repo.FindByProviderIdentity(ctx, enums.AuthProviderGoogle, subject)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByProviderIdentity(ctx, enums.AuthProviderApple, subject)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateProviderIdentity(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	hash := "$argon2id$stub"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "erin@example.com",
		DisplayName:  "Erin",
		PasswordHash: &hash,
	})
	require.NoError(t, err)

	relinked, err := repo.UpdateProviderIdentity(ctx, created.ID, enums.AuthProviderGoogle, "google-sub-erin")
	require.NoError(t, err)
	assert.Equal(t, enums.AuthProviderGoogle, relinked.AuthProvider)
	require.NotNil(t, relinked.AuthProviderID)
	assert.Equal(t, "google-sub-erin", *relinked.AuthProviderID)

	found, err := repo.FindByProviderIdentity(ctx, enums.AuthProviderGoogle, "google-sub-erin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.UpdateProviderIdentity(ctx, uuid.New(), enums.AuthProviderApple, "apple-sub-x")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateProfile(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Email: "carol@example.com", DisplayName: "Carol"})
	require.NoError(t, err)

	newName := "Carol Updated"
	avatar := "https://cdn.example.com/a.png"
	updated, err := repo.Update(ctx, created.ID, UpdateUserDTO{DisplayName: &newName, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.DisplayName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)

	// no-op update returns the current row unchanged
	same, err := repo.Update(ctx, created.ID, UpdateUserDTO{})
	require.NoError(t, err)
	assert.Equal(t, newName, same.DisplayName)

	_, err = repo.Update(ctx, uuid.New(), UpdateUserDTO{DisplayName: &newName})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateRoleAndDelete(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Email: "dave@example.com", DisplayName: "Dave"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRole(ctx, created.ID, enums.UserRoleAdmin))
	refreshed, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, refreshed.Role)

	admins, err := repo.CountByRole(ctx, enums.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), gorm.ErrRecordNotFound)
}

func TestRepositoryCountByProviderAndSince(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	subject := "google-subject-2"
	_, err := repo.Create(ctx, CreateUserDTO{Email: "p1@example.com", DisplayName: "P1"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "p2@example.com", DisplayName: "P2"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{
		Email:          "p3@example.com",
		DisplayName:    "P3",
		AuthProvider:   enums.AuthProviderGoogle,
		AuthProviderID: &subject,
	})
	require.NoError(t, err)

	counts, err := repo.CountByProvider(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[enums.AuthProviderEmail])
	assert.Equal(t, int64(1), counts[enums.AuthProviderGoogle])

	recent, err := repo.CountCreatedSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), recent)

	none, err := repo.CountCreatedSince(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestRepositoryListPaginates(t *testing.T) {
	conn := setupUsersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, email := range []string{"u1@example.com", "u2@example.com", "u3@example.com"} {
		_, err := repo.Create(ctx, CreateUserDTO{Email: email, DisplayName: email})
		require.NoError(t, err)
	}

	list, total, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 2)

	rest, total, err := repo.List(ctx, pagination.Params{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rest, 1)
}
