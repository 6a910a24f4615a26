package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/logger"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/seed"
)

func main() {
	var file string
	var force bool
	flag.StringVar(&file, "file", "", "Fixture YAML file (defaults to FIXTURES_FILE, then the embedded fixtures)")
	flag.BoolVar(&force, "force", false, "Load fixtures even when the storage already holds data")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if file == "" {
		file = cfg.FixturesFile
	}

	backend, err := database.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer backend.Close()

	if !backend.Persistent() {
		log.Fatal().Msg("STORAGE_DRIVER is memory; set sqlite or postgres to seed")
	}

	repos := repository.NewSet(backend)

	if !force {
		empty, err := seed.Empty(ctx, repos)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to inspect storage")
		}
		if !empty {
			fmt.Println("Storage already holds data; rerun with -force to overwrite fixture rows")
			return
		}
	}

	fixtures, err := seed.Load(file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fixtures")
	}

	fmt.Println("=== Seeding Fixtures ===")
	if err := seed.Apply(ctx, repos, fixtures, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply fixtures")
	}
	fmt.Printf("Seeded %d students, %d professors, %d subjects, %d lectures, %d attended subjects\n",
		len(fixtures.Students), len(fixtures.Professors), len(fixtures.Subjects),
		len(fixtures.Lectures), len(fixtures.AttendedSubjects))
}
