// Package main applies the embedded database migrations.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"jargas/internal/infrastructure/config"
	"jargas/internal/infrastructure/migration"
	"jargas/pkg/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	m, err := migration.New(cfg.Database.DSN(), log)
	if err != nil {
		log.Fatalw("failed to create migrator", "error", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warnw("failed to close migrator", "error", err)
		}
	}()

	log.Infow("migration command", "command", command, "database", cfg.Database.DBName)

	switch command {
	case "up":
		err = m.Up()

	case "down":
		err = m.Down()

	case "steps":
		n, convErr := intArg(args, "steps")
		if convErr != nil {
			log.Fatalw("invalid arguments", "error", convErr)
		}
		err = m.Steps(n)

	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			err = verr
			break
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Infow("current migration version", "version", version, "dirty", dirty)
		}

	case "force":
		version, convErr := intArg(args, "force")
		if convErr != nil {
			log.Fatalw("invalid arguments", "error", convErr)
		}
		err = m.Force(version)

	default:
		log.Errorw("unknown command", "command", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalw("migration failed", "command", command, "error", err)
	}
}

func intArg(args []string, command string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s <n>", command)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", command, args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`Jargas database migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  steps <n>         Apply n migrations (negative rolls back)
  version           Show the current migration version
  force <version>   Mark a version as applied without running it

Flags:
  -log-level string   debug, info, warn, error (default: info)

Database settings come from config.toml or JARGAS_DATABASE_* variables.`)
}
