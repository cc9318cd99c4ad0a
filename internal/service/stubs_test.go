package service

import (
	"context"
	"errors"
	"testing"

	"socialapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateEmailFn       func(context.Context, uint, string) (*models.User, error)
	deleteWithProfileFn func(context.Context, uint) error
	listFn              func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error) {
	return s.updateEmailFn(ctx, id, email)
}
func (s *userRepoStub) DeleteWithProfile(ctx context.Context, id uint) error {
	return s.deleteWithProfileFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ann", Avatar: "https://gravatar/ann"}, nil
		},
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateEmailFn:       func(_ context.Context, id uint, email string) (*models.User, error) { return &models.User{ID: id, Email: email}, nil },
		deleteWithProfileFn: func(_ context.Context, _ uint) error { return nil },
		listFn:              func(_ context.Context) ([]models.User, error) { return []models.User{}, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository. Mutate applies fn to
// the post returned by getByIDFn and records whether a write happened.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context) ([]models.Post, error)
	deleteFn  func(context.Context, uint) error
	writes    int
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Mutate(ctx context.Context, id uint, fn func(*models.Post) error) (*models.Post, error) {
	post, err := s.getByIDFn(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Normalize()
	if err := fn(post); err != nil {
		return nil, err
	}
	s.writes++
	return post, nil
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id, UserID: 1}, nil },
		listFn:    func(_ context.Context) ([]models.Post, error) { return []models.Post{}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	createFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}

// tokenStub records the ids it issues tokens for.
type tokenStub struct {
	err    error
	issued []uint
}

func (s *tokenStub) Issue(userID uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, userID)
	return "signed-token", nil
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts a validation failure with exactly the given messages, in order.
func assertValidationError(t *testing.T, err error, msgs ...string) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
	appErr := models.AsAppError(err)
	got := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		got = append(got, f.Msg)
	}
	assert.Equal(t, msgs, got)
}
