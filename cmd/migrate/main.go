// Command migrate applies, rolls back or reports the embedded schema migrations.
//
//	migrate [up|down|status]
package main

import (
	"context"
	"log/slog"
	"os"

	"coderr/config"
	logs "coderr/internal/infra/log"
	"coderr/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
)

type command string

type migrateParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	Command command
}

func main() {
	cmd := command("up")
	if len(os.Args) > 1 {
		cmd = command(os.Args[1])
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
		),
		fx.Supply(cmd),
		fx.Invoke(runMigration),
	)
	if err := app.Err(); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runMigration(params migrateParams) error {
	if params.Config.Postgres == nil {
		return errors.New("postgres is not configured")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return errors.Wrap(err, "failed to connect to PostgreSQL")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	defer sqlDB.Close()

	ctx := context.Background()
	switch params.Command {
	case "up":
		return postgres.Migrate(ctx, sqlDB, params.Logger)
	case "down":
		return postgres.MigrateDown(ctx, sqlDB, params.Logger)
	case "status":
		return postgres.MigrationStatus(ctx, sqlDB, params.Logger)
	default:
		return errors.Errorf("unknown command %q, expected up, down or status", params.Command)
	}
}
