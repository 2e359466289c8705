package postgres

import (
	"context"
	"log/slog"

	"coderr/config"
	"coderr/internal/domain/lifecycle"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the marketplace database. On start it pings the primary, applies
// pending migrations when migration.autoMigrate is set and begins watching
// the connection pool.
func New(params Params) (*gorm.DB, error) {
	raw, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db := configure(raw, newGormSlogLogger(params.Logger, params.Config))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	monitor := newPoolMonitor(params.Logger, sqlDB)
	monitorCtx, stopMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if params.Config.Migration.AutoMigrate {
				if err := Migrate(ctx, sqlDB, params.Logger); err != nil {
					return err
				}
			}

			go monitor.run(monitorCtx, poolMonitorInterval)

			return nil
		},
		OnStop: func(context.Context) error {
			stopMonitor()

			return errors.Wrap(sqlDB.Close(), "failed to close PostgreSQL")
		},
	})

	return db, nil
}

// configure applies the session settings repositories rely on: driver errors
// translated to gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated, and no
// implicit per-statement transaction since multi-step writes go through
// TransactionManager.Execute.
func configure(db *gorm.DB, gormLogger gormlogger.Interface) *gorm.DB {
	db.Config.TranslateError = true

	return db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
}
