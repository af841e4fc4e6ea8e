package main

// Run database migrations:
//   go run ./cmd/migrate            # apply all pending migrations
//   go run ./cmd/migrate status     # print migration status
//   go run ./cmd/migrate down       # roll back the latest migration
//   go run ./cmd/migrate redo       # roll back and re-apply the latest migration
//   go run ./cmd/migrate version    # print the current schema version

import (
	"context"
	"errors"
	"os"

	"mietrecht-backend/internal/shared/config"
	"mietrecht-backend/internal/shared/storage/db"
	"mietrecht-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	cmd := db.MigrateUp
	if len(os.Args) > 1 {
		cmd = db.MigrationCommand(os.Args[1])
	}

	if err := db.Migrate(ctx, sqlDB, cmd); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": cmd, "error": err})
		if errors.Is(err, db.ErrUnknownMigrationCommand) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": cmd})
}
