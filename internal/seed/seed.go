package seed

import (
	"context"
	"fmt"
	"log/slog"

	"socialapp/internal/auth"
	"socialapp/internal/cache"
	"socialapp/internal/models"

	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "password123"

const batchSize = 100

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// ProfileEvery gives every Nth user a profile; 1 means all of them.
	ProfileEvery int
	MaxComments  int
	MaxDays      int
	Seed         int64
}

// DefaultOptions returns the options used by the seed command.
func DefaultOptions() Options {
	return Options{NumUsers: 50, NumPosts: 200, ProfileEvery: 1, MaxComments: 5, MaxDays: 90}
}

// Summary reports how many records a run created.
type Summary struct {
	Users    int
	Profiles int
	Posts    int
	Likes    int
	Comments int
}

// Seeder populates a database with fake users, profiles and posts.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
	logger  *slog.Logger
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.ProfileEvery <= 0 {
		opts.ProfileEvery = 1
	}
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(opts.Seed, opts.MaxDays),
		logger:  slog.Default().With(slog.String("component", "seed")),
	}
}

// ClearAll removes every post, profile and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, m := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	cache.Invalidate(ctx, cache.PostsListKey, cache.UsersListKey)
	s.logger.InfoContext(ctx, "database cleared")
	return nil
}

// Run creates users, their profiles and posts with embedded likes and comments.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	users, err := s.SeedUsers(ctx, s.opts.NumUsers)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)

	sum.Profiles, err = s.SeedProfiles(ctx, users)
	if err != nil {
		return sum, err
	}

	posts, err := s.SeedPosts(ctx, users, s.opts.NumPosts)
	if err != nil {
		return sum, err
	}
	sum.Posts = len(posts)
	for _, p := range posts {
		sum.Likes += len(p.Likes)
		sum.Comments += len(p.Comments)
	}

	cache.Invalidate(ctx, cache.PostsListKey, cache.UsersListKey)
	s.logger.InfoContext(ctx, "seed complete",
		slog.Int("users", sum.Users),
		slog.Int("profiles", sum.Profiles),
		slog.Int("posts", sum.Posts),
		slog.Int("likes", sum.Likes),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}

// SeedUsers creates n users sharing DefaultPassword.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, *s.factory.BuildUser(i, hash))
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&users, batchSize).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// SeedProfiles gives every ProfileEvery-th user a profile.
func (s *Seeder) SeedProfiles(ctx context.Context, users []models.User) (int, error) {
	var profiles []models.Profile
	for i := range users {
		if i%s.opts.ProfileEvery == 0 {
			profiles = append(profiles, *s.factory.BuildProfile(&users[i]))
		}
	}
	if len(profiles) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&profiles, batchSize).Error; err != nil {
		return 0, fmt.Errorf("create profiles: %w", err)
	}
	return len(profiles), nil
}

// SeedPosts creates n posts by random users, liked and commented on by others.
func (s *Seeder) SeedPosts(ctx context.Context, users []models.User, n int) ([]models.Post, error) {
	if n <= 0 || len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := &users[s.factory.faker.Number(0, len(users)-1)]
		post := s.factory.BuildPost(author, users, s.opts.MaxComments)
		post.Version = 1
		posts = append(posts, *post)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&posts, batchSize).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}
