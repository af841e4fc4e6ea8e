package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"mietrecht-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// MigrationCommand names a goose operation run by Migrate.
type MigrationCommand string

const (
	MigrateUp      MigrationCommand = "up"
	MigrateDown    MigrationCommand = "down"
	MigrateRedo    MigrationCommand = "redo"
	MigrateStatus  MigrationCommand = "status"
	MigrateVersion MigrationCommand = "version"
)

var ErrUnknownMigrationCommand = errors.New("unknown migration command")

var gooseSetup struct {
	once sync.Once
	err  error
}

func setupGoose() error {
	gooseSetup.once.Do(func() {
		goose.SetBaseFS(migrationFiles)
		goose.SetLogger(gooseLogger{})
		gooseSetup.err = goose.SetDialect("postgres")
	})
	return gooseSetup.err
}

// Migrate runs cmd against the embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, cmd MigrationCommand) error {
	if database == nil {
		return errors.New("migrate: database is nil")
	}
	if err := setupGoose(); err != nil {
		return err
	}
	switch cmd {
	case MigrateUp:
		return goose.UpContext(ctx, database, migrationsDir)
	case MigrateDown:
		return goose.DownContext(ctx, database, migrationsDir)
	case MigrateRedo:
		return goose.RedoContext(ctx, database, migrationsDir)
	case MigrateStatus:
		return goose.StatusContext(ctx, database, migrationsDir)
	case MigrateVersion:
		return goose.VersionContext(ctx, database, migrationsDir)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, cmd)
	}
}

// RunMigrations applies pending migrations at startup. A nil database
// means the memory repos are in use and there is nothing to migrate.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	return Migrate(ctx, database, MigrateUp)
}

// gooseLogger routes goose output through telemetry.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	telemetry.Info("db.migrate", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...any) {
	telemetry.Error("db.migrate_fatal", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
	telemetry.Sync()
	os.Exit(1)
}
