// Package seed populates a development database with realistic fake data.
package seed

import (
	"fmt"
	"math/rand"

	"zephyr/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data is generated.
type Options struct {
	Users              int
	Posts              int
	EngagementsPerUser int
	Seed               int64
}

// DefaultOptions returns a small but useful development dataset.
func DefaultOptions() Options {
	return Options{
		Users:              25,
		Posts:              120,
		EngagementsPerUser: 15,
		Seed:               42,
	}
}

var tagPool = []string{
	"go", "database", "search", "redis", "postgres", "elasticsearch",
	"concurrency", "testing", "devops", "web", "performance", "tutorial",
}

// Run populates the database. All seeded accounts share the password
// "password123" so they are usable from the login endpoint.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(opts.Seed)
	rng := rand.New(rand.NewSource(opts.Seed))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("seed%d_%s", i, gofakeit.Email()),
			Password: string(hash),
			Role:     string(models.RoleUser),
		}
		if i == 0 {
			user.Role = string(models.RoleAdmin)
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[rng.Intn(len(users))]
		post := &models.Post{
			Title:   gofakeit.Sentence(rng.Intn(6) + 3),
			Content: gofakeit.Paragraph(2, 4, 12, " "),
			Tags:    pickTags(rng),
			UserID:  author.ID,
		}
		if len(post.Title) > 80 {
			post.Title = post.Title[:80]
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}
		posts = append(posts, post)
	}

	for _, user := range users {
		seen := map[int64]bool{}
		for i := 0; i < opts.EngagementsPerUser; i++ {
			post := posts[rng.Intn(len(posts))]
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true

			if err := engage(db, user.ID, post, rng.Intn(2) == 0); err != nil {
				return err
			}
		}
	}

	return nil
}

func pickTags(rng *rand.Rand) []string {
	n := rng.Intn(3) + 1
	tags := make([]string, 0, n)
	for _, i := range rng.Perm(len(tagPool))[:n] {
		tags = append(tags, tagPool[i])
	}
	return tags
}

// engage writes the engagement record and bumps the matching counter so the
// seeded data obeys the record/counter consistency the services expect.
func engage(db *gorm.DB, userID int64, post *models.Post, collect bool) error {
	if collect {
		if err := db.Create(&models.PostCollection{PostID: post.ID, UserID: userID}).Error; err != nil {
			return fmt.Errorf("seed collection: %w", err)
		}
		return db.Exec("UPDATE post SET collect_count = collect_count + 1 WHERE id = ?", post.ID).Error
	}
	if err := db.Create(&models.PostLike{PostID: post.ID, UserID: userID}).Error; err != nil {
		return fmt.Errorf("seed like: %w", err)
	}
	return db.Exec("UPDATE post SET like_count = like_count + 1 WHERE id = ?", post.ID).Error
}
