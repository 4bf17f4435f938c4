// Command main runs the demo data seeder for Glimpse.
package main

import (
	"context"
	"flag"
	"log"

	"glimpse/internal/access"
	"glimpse/internal/config"
	"glimpse/internal/remote/localstore"
	"glimpse/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	flag.Parse()

	log.Println("Demo Data Seeder")
	log.Printf("Target: %d users, %d posts\n", *numUsers, *numPosts)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreDriver == config.StoreDriverRemote {
		log.Fatal("Seeding targets the local store only; set STORE_DRIVER to sqlite or postgres")
	}

	// Open the local store
	store, err := localstore.Open(cfg.StoreDriver, cfg.LocalStoreDSN)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	svc := access.New(store, access.Config{
		UsersCollectionID: cfg.UsersCollectionID,
		PostsCollectionID: cfg.PostsCollectionID,
		SavesCollectionID: cfg.SavesCollectionID,
		StorageBucketID:   cfg.StorageBucketID,
	})

	s := seed.NewSeeder(svc)
	if err := s.Seed(context.Background(), seed.Options{
		NumUsers: *numUsers,
		NumPosts: *numPosts,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The store is now populated with demo data.")
	log.Println("All demo users have the password: password123")
}
