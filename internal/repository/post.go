package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"socialapp/internal/cache"
	"socialapp/internal/models"
	"socialapp/internal/observability"

	"gorm.io/gorm"
)

// MaxMutateAttempts bounds how often Mutate retries after a version conflict.
const MaxMutateAttempts = 3

// ErrWriteConflict is wrapped in the internal error Mutate returns once it
// runs out of attempts.
var ErrWriteConflict = errors.New("post was modified concurrently")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
	Mutate(ctx context.Context, id uint, fn func(*models.Post) error) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	post.Normalize()
	post.Version = 1
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.Failed(ctx, observability.OpCreate, err)
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	r.log.Wrote(ctx, observability.OpCreate, slog.Any("post_id", post.ID), slog.Any("user_id", post.UserID))
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.load(ctx, id, &post)
	})
	if err != nil {
		return nil, err
	}
	post.Normalize()
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, func() error {
		defer observability.TrackQuery("select", "posts")()
		if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		r.log.Failed(ctx, observability.OpDelete, res.Error)
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	cache.InvalidatePost(ctx, id)
	r.log.Wrote(ctx, observability.OpDelete, slog.Any("post_id", id))
	return nil
}

// Mutate reads the post, applies fn and writes likes and comments back only
// if nobody else wrote in between (version check). On conflict the whole
// read-apply-write cycle is retried up to MaxMutateAttempts times. An error
// from fn aborts without writing.
func (r *postRepository) Mutate(ctx context.Context, id uint, fn func(*models.Post) error) (*models.Post, error) {
	for attempt := 1; attempt <= MaxMutateAttempts; attempt++ {
		var post models.Post
		if err := r.load(ctx, id, &post); err != nil {
			return nil, err
		}
		post.Normalize()

		if err := fn(&post); err != nil {
			return nil, err
		}

		version := post.Version
		done := observability.TrackQuery("update", "posts")
		res := r.db.WithContext(ctx).
			Model(&models.Post{ID: id}).
			Where("version = ?", version).
			Select("likes", "comments", "version").
			Updates(&models.Post{Likes: post.Likes, Comments: post.Comments, Version: version + 1})
		done()
		if res.Error != nil {
			r.log.Failed(ctx, observability.OpUpdate, res.Error)
			return nil, models.NewInternalError(res.Error)
		}

		if res.RowsAffected == 1 {
			post.Version = version + 1
			cache.InvalidatePost(ctx, id)
			r.log.Wrote(ctx, observability.OpUpdate, slog.Any("post_id", id), slog.Any("version", post.Version), slog.Int("attempt", attempt))
			return &post, nil
		}

		observability.PostWriteConflicts.Inc()
		slog.Default().WarnContext(ctx, "post version conflict",
			slog.Uint64("post_id", uint64(id)),
			slog.Uint64("version", uint64(version)),
			slog.Int("attempt", attempt),
		)
	}

	return nil, models.NewInternalError(fmt.Errorf("post %d: %w after %d attempts", id, ErrWriteConflict, MaxMutateAttempts))
}

// load reads a post straight from the database.
func (r *postRepository) load(ctx context.Context, id uint, post *models.Post) error {
	defer observability.TrackQuery("select", "posts")()

	if err := r.db.WithContext(ctx).First(post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post")
		}
		return models.NewInternalError(err)
	}
	return nil
}
