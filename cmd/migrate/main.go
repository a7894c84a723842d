package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"liwamenu-be/internal/config"
	"liwamenu-be/internal/db"
	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/migrate"

	"go.uber.org/zap"
)

type options struct {
	mode  string
	steps int
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	mode := fs.String("mode", "up", "migration mode: up or down")
	steps := fs.Int("steps", 1, "number of migrations to roll back in down mode")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *mode != "up" && *mode != "down" {
		return options{}, fmt.Errorf("unknown mode: %s (use 'up' or 'down')", *mode)
	}
	return options{mode: *mode, steps: *steps}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.LoadDatabaseConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	if err := run(database, opts); err != nil {
		logger.L().Fatal("migration failed", zap.String("mode", opts.mode), zap.Error(err))
	}
}

var (
	upFunc   = migrate.Up
	downFunc = migrate.Down
)

func run(database *sql.DB, opts options) error {
	switch opts.mode {
	case "down":
		return downFunc(database, opts.steps)
	default:
		return upFunc(database)
	}
}
