// Command seed populates the database with generated demo data.
package main

import (
	"flag"
	"log"

	"tribune/internal/config"
	"tribune/internal/database"
	"tribune/internal/seed"
)

func main() {
	preset := flag.String("preset", "", "path to a YAML seed preset (optional)")
	users := flag.Int("users", 0, "override user count")
	posts := flag.Int("posts", 0, "override post count")
	wipe := flag.Bool("wipe", false, "delete existing data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	opts := seed.DefaultOptions
	if *preset != "" {
		opts, err = seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
	}
	if *users > 0 {
		opts.Users = *users
	}
	if *posts > 0 {
		opts.Posts = *posts
	}
	if *wipe {
		opts.Wipe = true
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
