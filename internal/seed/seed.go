// Package seed provides helpers to create test and demo data through the
// access layer. These helpers are intended for development and testing only.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math/rand"
	"strings"
	"time"

	"glimpse/internal/access"
	"glimpse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers int
	NumPosts int
}

// Seeder creates demo users and posts through the access layer so that every
// seeded record goes through the same validation and compensation paths as
// real traffic.
type Seeder struct {
	svc *access.Service
}

// NewSeeder creates a new Seeder bound to the provided access service.
func NewSeeder(svc *access.Service) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{svc: svc}
}

// Seed populates the store with demo data.
func (s *Seeder) Seed(ctx context.Context, opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	users, err := s.SeedUsers(ctx, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created", len(users))

	posts, err := s.SeedPosts(ctx, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d demo posts created", len(posts))

	return nil
}

// SeedUsers creates n demo user accounts. All of them share the password
// "password123".
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
		user, err := s.svc.CreateAccount(ctx, access.NewAccount{
			Name:     name,
			Username: username,
			Email:    gofakeit.Email(),
			Password: "password123",
		})
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// SeedPosts creates n demo posts spread across the given users.
func (s *Seeder) SeedPosts(ctx context.Context, users []models.User, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach posts to")
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		creator := users[r.Intn(len(users))]
		img, err := demoImage(r)
		if err != nil {
			return nil, err
		}

		post, err := s.svc.CreatePost(ctx, access.NewPost{
			CreatorID: creator.ID,
			Caption:   gofakeit.Sentence(8),
			Location:  gofakeit.City(),
			Tags:      demoTags(r),
			File:      access.FileUpload{Name: fmt.Sprintf("seed-%d.png", i), Data: img},
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

// demoImage renders a small solid-color PNG so uploads pass image sniffing.
func demoImage(r *rand.Rand) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	c := color.RGBA{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256)), A: 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func demoTags(r *rand.Rand) string {
	pool := []string{"travel", "food", "art", "music", "nature", "tech", "fitness", "books"}
	n := 1 + r.Intn(3)
	picked := make([]string, 0, n)
	for _, idx := range r.Perm(len(pool))[:n] {
		picked = append(picked, pool[idx])
	}
	return strings.Join(picked, ",")
}
