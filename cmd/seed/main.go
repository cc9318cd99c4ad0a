// Command seed populates the database with demo users, profiles and posts.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"socialapp/internal/cache"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/middleware"
	"socialapp/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	profileEvery := flag.Int("profile-every", defaults.ProfileEvery, "Give every Nth user a profile")
	maxComments := flag.Int("max-comments", defaults.MaxComments, "Maximum comments per post")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, os.Stdout)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Seeded writes bypass the repositories, so stale list caches are dropped explicitly.
	cache.InitRedis(cfg.RedisURL)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		NumUsers:     *numUsers,
		NumPosts:     *numPosts,
		ProfileEvery: *profileEvery,
		MaxComments:  *maxComments,
		MaxDays:      defaults.MaxDays,
		Seed:         *seedValue,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d profiles, %d posts (%d likes, %d comments)",
		sum.Users, sum.Profiles, sum.Posts, sum.Likes, sum.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
