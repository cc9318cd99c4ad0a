package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"socialapp/internal/cache"
	"socialapp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo UserRepository, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hash", Avatar: "https://avatar/" + name}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := seedUser(t, repo, "Ann", "a@x.com")
	assert.NotZero(t, u.ID)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Empty(t, got.Password)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "hash", byEmail.Password)

	missing, err := repo.GetByEmail(ctx, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo, "Ann", "a@x.com")

	err := repo.Create(context.Background(), &models.User{Name: "Other", Email: "a@x.com", Password: "x"})
	assert.True(t, models.IsCode(err, models.CodeDuplicateEmail), "got %v", err)
}

func TestUserRepository_UpdateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	ann := seedUser(t, repo, "Ann", "a@x.com")
	seedUser(t, repo, "Bob", "b@x.com")

	updated, err := repo.UpdateEmail(ctx, ann.ID, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", updated.Email)

	var stored models.User
	require.NoError(t, db.First(&stored, ann.ID).Error)
	assert.Equal(t, "hash", stored.Password, "password must survive an email change")

	_, err = repo.UpdateEmail(ctx, ann.ID, "b@x.com")
	assert.True(t, models.IsCode(err, models.CodeDuplicateEmail))

	_, err = repo.UpdateEmail(ctx, 999, "z@x.com")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_DeleteWithProfile(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	ann := seedUser(t, users, "Ann", "a@x.com")
	bob := seedUser(t, users, "Bob", "b@x.com")
	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: ann.ID, Status: "Developer"}))
	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: bob.ID, Status: "Designer"}))

	require.NoError(t, users.DeleteWithProfile(ctx, ann.ID))

	_, err := users.GetByID(ctx, ann.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	p, err := profiles.GetByUserID(ctx, ann.ID)
	assert.NoError(t, err)
	assert.Nil(t, p)

	p, err = profiles.GetByUserID(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, p)

	err = users.DeleteWithProfile(ctx, ann.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_DeleteWithProfileRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles" WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.DeleteWithProfile(context.Background(), 1)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	seedUser(t, repo, "Ann", "a@x.com")
	seedUser(t, repo, "Bob", "b@x.com")

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann", users[0].Name)
}

func TestUserRepository_GetByIDUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).AddRow(7, "Ann", "a@x.com", "hash"))

	first, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(cache.UserKey(7)))
	cached, err := mr.Get(cache.UserKey(7))
	require.NoError(t, err)
	assert.NotContains(t, cached, "hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "idx_users_email"`)))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.False(t, isUniqueConstraintError(nil))
}
