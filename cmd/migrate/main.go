package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/m04kA/recentro-booking/internal/config"
	"github.com/m04kA/recentro-booking/internal/infra/storage"
	"github.com/m04kA/recentro-booking/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.LookupEnv("CONFIG_PATH", "config.toml"), "path to config.toml")
	command := flag.String("command", "up", "up | down | version")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN(), storage.PoolConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := storage.NewMigrator(db, cfg.Database.Driver)
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}

	switch *command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info("No migrations applied")
			return
		}
		if verr != nil {
			log.Fatal("Failed to read version: %v", verr)
		}
		log.Info("Migration version=%d dirty=%t", version, dirty)
		return
	default:
		log.Fatal("Unknown command %q (expected up, down or version)", *command)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("Migration %s failed: %v", *command, err)
	}
	log.Info("Migration %s completed (driver=%s)", *command, cfg.Database.Driver)
}
