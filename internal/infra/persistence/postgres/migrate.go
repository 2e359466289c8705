package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := newMigrationProvider(db, logger)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}
	for _, result := range results {
		logger.Info("Applied migration", slog.String("result", result.String()))
	}

	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := newMigrationProvider(db, logger)
	if err != nil {
		return err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to roll back migration")
	}
	logger.Info("Rolled back migration", slog.String("result", result.String()))

	return nil
}

// MigrationStatus logs the state of every known migration.
func MigrationStatus(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := newMigrationProvider(db, logger)
	if err != nil {
		return err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read migration status")
	}
	for _, status := range statuses {
		logger.Info("Migration",
			slog.Int64("version", status.Source.Version),
			slog.String("state", string(status.State)),
		)
	}

	return nil
}

func newMigrationProvider(db *sql.DB, logger *slog.Logger) (*goose.Provider, error) {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded migrations")
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys,
		goose.WithLogger(gooseSlogLogger{logger: logger}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration provider")
	}

	return provider, nil
}

// gooseSlogLogger adapts slog to goose.Logger.
type gooseSlogLogger struct {
	logger *slog.Logger
}

func (l gooseSlogLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseSlogLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
