// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"socialapp/internal/auth"
	"socialapp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var statuses = []string{
	"Developer", "Junior Developer", "Senior Developer", "Manager",
	"Student or Learning", "Instructor", "Intern", "Other",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL",
	"Redis", "Docker", "Kubernetes", "HTML", "CSS", "Python", "GraphQL",
}

// Factory builds unsaved domain values filled with fake data. Given the same
// seed it produces the same values.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
}

// NewFactory returns a Factory. A zero seed picks a random one.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{faker: gofakeit.New(seed), maxDays: maxDays, now: time.Now}
}

// BuildUser returns a user whose email is unique per index. passwordHash is
// shared so seeding does not pay the bcrypt cost per user.
func (f *Factory) BuildUser(index int, passwordHash string) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, index))
	return &models.User{
		Name:      first + " " + last,
		Email:     email,
		Password:  passwordHash,
		Avatar:    auth.GravatarURL(email),
		CreatedAt: f.pastTime(),
	}
}

// BuildProfile returns a profile for user.
func (f *Factory) BuildProfile(user *models.User) *models.Profile {
	n := f.faker.Number(1, 5)
	skills := make([]string, 0, n)
	seen := map[string]bool{}
	for len(skills) < n {
		s := skillPool[f.faker.Number(0, len(skillPool)-1)]
		if !seen[s] {
			seen[s] = true
			skills = append(skills, s)
		}
	}

	handle := strings.ToLower(strings.ReplaceAll(user.Name, " ", ""))
	return &models.Profile{
		UserID:         user.ID,
		Company:        f.faker.Company(),
		Website:        f.faker.URL(),
		Location:       f.faker.City() + ", " + f.faker.StateAbr(),
		Status:         statuses[f.faker.Number(0, len(statuses)-1)],
		Skills:         skills,
		Bio:            f.faker.Sentence(12),
		GithubUsername: handle,
		CreatedAt:      f.pastTime(),
	}
}

// BuildPost returns a post by author with likes from a random subset of
// audience and up to maxComments comments. Author fields are snapshotted.
func (f *Factory) BuildPost(author *models.User, audience []models.User, maxComments int) *models.Post {
	post := &models.Post{
		UserID:    author.ID,
		Text:      f.faker.Paragraph(1, 3, 12, " "),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: f.pastTime(),
	}
	post.Normalize()

	for _, u := range audience {
		if f.faker.Bool() && !post.HasLike(u.ID) {
			post.AddLike(models.Like{ID: f.faker.UUID(), UserID: u.ID})
		}
	}

	if maxComments > 0 && len(audience) > 0 {
		for i := f.faker.Number(0, maxComments); i > 0; i-- {
			u := audience[f.faker.Number(0, len(audience)-1)]
			post.AddComment(models.Comment{
				ID:        f.faker.UUID(),
				UserID:    u.ID,
				Text:      f.faker.Sentence(8),
				Name:      u.Name,
				Avatar:    u.Avatar,
				CreatedAt: post.CreatedAt.Add(time.Duration(f.faker.Number(1, 600)) * time.Minute),
			})
		}
	}
	return post
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return f.now().Add(-back)
}
