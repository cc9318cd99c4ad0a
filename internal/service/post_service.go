package service

import (
	"context"
	"strings"
	"time"

	"socialapp/internal/models"
	"socialapp/internal/observability"
	"socialapp/internal/repository"
	"socialapp/internal/validation"

	"github.com/google/uuid"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// CommentInput identifies a comment on a post.
type CommentInput struct {
	CallerID  uint
	PostID    uint
	CommentID string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, now: time.Now}
}

func validateText(p validation.Payload) error {
	if errs := validation.Validate(p, validation.Required("text", msgTextRequired)); len(errs) > 0 {
		return models.NewValidationError(errs)
	}
	return nil
}

// Create publishes a post, snapshotting the author's name and avatar.
func (s *PostService) Create(ctx context.Context, callerID uint, p validation.Payload) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Create")
	defer func() { observability.EndSpan(span, err) }()

	if err := validateText(p); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID: callerID,
		Text:   strings.TrimSpace(validation.String(p, "text")),
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, callerID, id uint) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Delete", observability.PostAttr(id))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		return models.NewForbiddenError()
	}
	return s.postRepo.Delete(ctx, id)
}

// Like adds the caller's like to the front of the post's likes.
func (s *PostService) Like(ctx context.Context, callerID, id uint) (likes []models.Like, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Like", observability.PostAttr(id))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.Mutate(ctx, id, func(p *models.Post) error {
		if p.HasLike(callerID) {
			return models.NewAlreadyLikedError()
		}
		p.AddLike(models.Like{ID: uuid.NewString(), UserID: callerID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.PostReactions.WithLabelValues("like").Inc()
	return post.Likes, nil
}

// Unlike removes the caller's like.
func (s *PostService) Unlike(ctx context.Context, callerID, id uint) (likes []models.Like, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Unlike", observability.PostAttr(id))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.Mutate(ctx, id, func(p *models.Post) error {
		if !p.RemoveLike(callerID) {
			return models.NewNotLikedError()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.PostReactions.WithLabelValues("unlike").Inc()
	return post.Likes, nil
}

// AddComment puts a new comment by the caller at the front of the post's comments.
func (s *PostService) AddComment(ctx context.Context, callerID, id uint, p validation.Payload) (comments []models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "AddComment", observability.PostAttr(id))
	defer func() { observability.EndSpan(span, err) }()

	if err := validateText(p); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    callerID,
		Text:      strings.TrimSpace(validation.String(p, "text")),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: s.now(),
	}
	post, err := s.postRepo.Mutate(ctx, id, func(p *models.Post) error {
		p.AddComment(comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.PostReactions.WithLabelValues("comment").Inc()
	return post.Comments, nil
}

// DeleteComment removes a comment. Only its author may do so.
func (s *PostService) DeleteComment(ctx context.Context, in CommentInput) (comments []models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "DeleteComment", observability.PostAttr(in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.Mutate(ctx, in.PostID, func(p *models.Post) error {
		comment := p.FindComment(in.CommentID)
		if comment == nil {
			return models.NewCommentNotFoundError()
		}
		if comment.UserID != in.CallerID {
			return models.NewForbiddenError()
		}
		p.RemoveComment(in.CommentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.PostReactions.WithLabelValues("uncomment").Inc()
	return post.Comments, nil
}
