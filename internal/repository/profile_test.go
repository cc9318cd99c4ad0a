package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"socialapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_CreateAndGet(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	p := &models.Profile{UserID: 3, Status: "Developer", Skills: []string{"go", "sql"}, GithubUsername: "ann"}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByUserID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.Equal(t, "ann", got.GithubUsername)

	none, err := repo.GetByUserID(ctx, 4)
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestProfileRepository_OnePerUser(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{UserID: 3, Status: "a"}))
	err := repo.Create(ctx, &models.Profile{UserID: 3, Status: "b"})
	assert.True(t, models.IsCode(err, models.CodeInternal))
}

func TestProfileRepository_GetByUserIDDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByUserID(context.Background(), 1)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
