package migration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var defaultDirs = []string{"./db/migrations", "/app/db/migrations"}

// Runner applies the SQL files under db/migrations to one database.
type Runner struct {
	m         *migrate.Migrate
	sourceURL string
}

func New(dbURL, dir string) (*Runner, error) {
	if strings.TrimSpace(dbURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir %q: %w", dir, err)
	}

	sourceURL := "file://" + filepath.ToSlash(abs)
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Runner{m: m, sourceURL: sourceURL}, nil
}

func (r *Runner) SourceURL() string {
	return r.sourceURL
}

// Up applies all pending migrations. It reports false when nothing changed.
func (r *Runner) Up() (bool, error) {
	return changed(r.m.Up())
}

func (r *Runner) Down(steps int) (bool, error) {
	if steps <= 0 {
		return false, fmt.Errorf("down steps must be > 0")
	}
	return changed(r.m.Steps(-steps))
}

func (r *Runner) Goto(target uint) (bool, error) {
	return changed(r.m.Migrate(target))
}

func (r *Runner) Force(version int) error {
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Version returns ok=false when no migration has been applied yet.
func (r *Runner) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, true, nil
}

func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration db: %w", dbErr)
	}
	return nil
}

// ResolveDir returns the first existing directory among explicit and the defaults.
func ResolveDir(explicit ...string) (string, error) {
	candidates := append(append([]string(nil), explicit...), defaultDirs...)
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
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
	return "", fmt.Errorf("migration directory not found (checked %s)", strings.Join(candidates, ", "))
}

func changed(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
