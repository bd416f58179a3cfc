package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/logger"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/persistence"
)

// migrate brings the database schema up to date for the current build.
// The server runs the same migration at startup when history recording is
// enabled; this command exists for deployments that migrate separately.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration completed",
		zap.String("database", cfg.Database.DBName),
		zap.String("host", cfg.Database.Host),
	)
}
