package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/pick-ledger/internal/app"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadDatabase()
	if err != nil {
		fatal(logging.New(logging.FormatConsole, logging.LevelInfo, os.Stderr), "load config", err)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	defer func() { _ = logger.Sync() }()

	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		fatal(logger, "resolve migrations dir", err)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, app.PostgresDSN(cfg))
	if err != nil {
		fatal(logger, "create migrator", err)
	}
	defer closeMigrator(m, logger)

	switch strings.ToLower(strings.TrimSpace(os.Args[1])) {
	case "up":
		handleMigrationErr(logger, m.Up())
		logger.Info("migrations applied", "source", sourceURL)
	case "down":
		steps, err := parseSteps(os.Args[2:])
		if err != nil {
			fatal(logger, "parse steps", err)
		}
		handleMigrationErr(logger, m.Steps(-steps))
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return
		}
		if err != nil {
			fatal(logger, "read version", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(os.Args) < 3 {
			fatal(logger, "force", errors.New("a version argument is required"))
		}
		version, err := parseVersion(os.Args[2])
		if err != nil {
			fatal(logger, "parse version", err)
		}
		if err := m.Force(version); err != nil {
			fatal(logger, "force version", err)
		}
		logger.Info("forced migration version", "version", version)
	case "goto", "migrate":
		if len(os.Args) < 3 {
			fatal(logger, "goto", errors.New("a target version argument is required"))
		}
		target, err := parseTarget(os.Args[2])
		if err != nil {
			fatal(logger, "parse target", err)
		}
		handleMigrationErr(logger, m.Migrate(target))
		logger.Info("migrated", "version", target)
	default:
		printUsage()
		os.Exit(2)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func handleMigrationErr(logger *logging.Logger, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return
	}
	fatal(logger, "migrate", err)
}

func closeMigrator(m *migrate.Migrate, logger *logging.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	_ = logger.Sync()
	os.Exit(1)
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s version\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1771900000\n", name)
}
