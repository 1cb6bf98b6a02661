package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Applies the schema under db/migrations to the database named by
// DB_URL. Commands mirror the migrate CLI subset we actually use.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	migrator, err := newMigrator()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
			log.Printf("close migrator: source=%v db=%v", srcErr, dbErr)
		}
	}()

	if err := run(migrator, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func newMigrator() (*migrate.Migrate, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return nil, errors.New("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return nil, err
	}

	migrator, err := migrate.New("file://"+filepath.ToSlash(dir), withPreparedBinaryFlag(dbURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

func run(migrator *migrate.Migrate, command string, args []string) error {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "up":
		if err := apply(migrator.Up()); err != nil {
			return err
		}
		log.Print("migrations applied")
		return nil

	case "down":
		steps := 1
		if len(args) > 0 {
			parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || parsed <= 0 {
				return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
			}
			steps = parsed
		}
		if err := apply(migrator.Steps(-steps)); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
		return nil

	case "version":
		version, dirty, err := migrator.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
		return nil

	case "force":
		if len(args) == 0 {
			return errors.New("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || version < 0 {
			return fmt.Errorf("force version must be a non-negative integer, got %q", args[0])
		}
		if err := migrator.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		log.Printf("forced version to %d", version)
		return nil

	case "goto":
		if len(args) == 0 {
			return errors.New("goto requires a target version argument")
		}
		target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("goto target must be a non-negative integer, got %q", args[0])
		}
		if err := apply(migrator.Migrate(uint(target))); err != nil {
			return err
		}
		log.Printf("migrated to version %d", target)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func apply(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Print("no migration changes")
		return nil
	}
	return err
}

// migrationsDir prefers explicit env overrides, then the repo layout,
// then the container layout.
func migrationsDir() (string, error) {
	candidates := []string{
		os.Getenv("MIGRATIONS_DIR"),
		os.Getenv("MIGRATIONS_PATH"),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", errors.New("migration directory not found (checked MIGRATIONS_DIR, MIGRATIONS_PATH, ./db/migrations, /app/db/migrations)")
}

// withPreparedBinaryFlag mirrors the API server's connection tweak so
// migrations run through the same pooler without binary result issues.
func withPreparedBinaryFlag(raw string) string {
	disabled := strings.TrimSpace(strings.ToLower(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")))
	switch disabled {
	case "", "1", "true", "t", "yes", "y", "on":
	default:
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
}
