package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"socialapp/internal/cache"
	"socialapp/internal/models"
	"socialapp/internal/observability"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, repo PostRepository, userID uint, text string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: userID, Text: text, Name: "Ann"}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func likeBy(userID uint) func(*models.Post) error {
	return func(p *models.Post) error {
		if p.HasLike(userID) {
			return models.NewAlreadyLikedError()
		}
		p.AddLike(models.Like{ID: "like-" + time.Now().String(), UserID: userID})
		return nil
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedPost(t, repo, 1, "hi")
	assert.NotZero(t, p.ID)
	assert.Equal(t, uint(1), p.Version)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Text)
	assert.NotNil(t, got.Likes)
	assert.Empty(t, got.Likes)
	assert.NotNil(t, got.Comments)

	_, err = repo.GetByID(ctx, 404)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	older := &models.Post{UserID: 1, Text: "older", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	seedPost(t, repo, 1, "newer")

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Text)
	assert.Equal(t, "older", posts[1].Text)
}

func TestPostRepository_Delete(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPost(t, repo, 1, "bye")

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err := repo.GetByID(ctx, p.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	err = repo.Delete(ctx, p.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostRepository_MutateAppliesAndBumpsVersion(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPost(t, repo, 1, "hi")

	updated, err := repo.Mutate(ctx, p.ID, likeBy(2))
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.Version)
	require.Len(t, updated.Likes, 1)

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Likes, 1)
	assert.Equal(t, uint(2), stored.Likes[0].UserID)
}

func TestPostRepository_MutateCallbackErrorAbortsWrite(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPost(t, repo, 1, "hi")

	_, err := repo.Mutate(ctx, p.ID, likeBy(2))
	require.NoError(t, err)

	_, err = repo.Mutate(ctx, p.ID, likeBy(2))
	assert.True(t, models.IsCode(err, models.CodeAlreadyLiked))

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Likes, 1)
}

func TestPostRepository_MutateMissingPost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	called := false
	_, err := repo.Mutate(context.Background(), 42, func(*models.Post) error {
		called = true
		return nil
	})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.False(t, called)
}

// A write that lands between our read and our conditional update must not
// be lost: the stale attempt is rejected and the retry sees both likes.
func TestPostRepository_MutateRetriesStaleVersion(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPost(t, repo, 1, "hi")

	conflictsBefore := testutil.ToFloat64(observability.PostWriteConflicts)
	attempts := 0
	updated, err := repo.Mutate(ctx, p.ID, func(post *models.Post) error {
		attempts++
		if attempts == 1 {
			_, err := repo.Mutate(ctx, p.ID, likeBy(2))
			require.NoError(t, err)
		}
		return likeBy(3)(post)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, uint(3), updated.Version)
	require.Len(t, updated.Likes, 2)
	assert.Equal(t, uint(3), updated.Likes[0].UserID)
	assert.Equal(t, uint(2), updated.Likes[1].UserID)
	assert.Equal(t, conflictsBefore+1, testutil.ToFloat64(observability.PostWriteConflicts))
}

func TestPostRepository_MutateGivesUpAfterMaxAttempts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	for i := 0; i < MaxMutateAttempts; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text", "likes", "comments", "version"}).
				AddRow(5, 1, "hi", "[]", "[]", 1))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	_, err := repo.Mutate(context.Background(), 5, likeBy(2))
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.True(t, errors.Is(err, ErrWriteConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_WritesInvalidateCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	p := seedPost(t, repo, 1, "hi")

	_, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	_, err = repo.List(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(p.ID)))
	assert.True(t, mr.Exists(cache.PostsListKey))

	_, err = repo.Mutate(ctx, p.ID, likeBy(2))
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PostKey(p.ID)))
	assert.False(t, mr.Exists(cache.PostsListKey))

	fresh, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Likes, 1)
}
