package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go-dental-clinic/config"
	"go-dental-clinic/internal/infrastructure/database"
	"go-dental-clinic/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-steps N] up|down|version\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	steps := flag.Int("steps", 0, "number of migrations to apply (0 means all for up, one for down)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logrus.Fatalf("Failed to open embedded migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, database.MigrationURL(cfg.DB))
	if err != nil {
		logrus.Fatalf("Failed to initialize migrate: %v", err)
	}
	defer m.Close()

	switch flag.Arg(0) {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			logrus.Info("No migrations applied")
			return
		}
		if verr != nil {
			logrus.Fatalf("Failed to read version: %v", verr)
		}
		logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Current migration version")
		return
	default:
		usage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logrus.Info("No migrations to apply")
		return
	}
	if err != nil {
		logrus.Fatalf("Migration %s failed: %v", flag.Arg(0), err)
	}
	logrus.Infof("Migration %s complete", flag.Arg(0))
}
