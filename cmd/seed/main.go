// Command main seeds the configured post store with fixture or fake posts.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"masterblog/internal/config"
	"masterblog/internal/middleware"
	"masterblog/internal/models"
	"masterblog/internal/repository"
	"masterblog/internal/seed"
	"masterblog/internal/storage"
)

func main() {
	fixture := flag.String("fixture", "", "YAML file with a list of posts to import")
	count := flag.Int("count", 0, "Number of fake posts to generate")
	clean := flag.Bool("clean", false, "Replace the collection instead of appending")
	export := flag.String("export", "", "Print the collection afterwards as json or yaml")
	fakeSeed := flag.Int64("seed", 0, "Random seed for generated posts (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StorageDriver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	repo := repository.NewPostRepository(store)
	seeder := seed.NewSeeder(repo, seed.Options{
		Seed:       *fakeSeed,
		DateLayout: cfg.DateFormat,
	})

	var posts []models.Post
	if *fixture != "" {
		f, err := os.Open(*fixture)
		if err != nil {
			log.Fatalf("Failed to open fixture: %v", err)
		}
		loaded, err := seed.LoadFixture(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		posts = append(posts, loaded...)
	}
	if *count > 0 {
		posts = append(posts, seeder.Generate(*count)...)
	}

	if len(posts) > 0 || *clean {
		if _, err := seeder.Apply(ctx, posts, *clean); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	if *export != "" {
		if err := seed.Export(ctx, repo, os.Stdout, *export); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
	}
}
