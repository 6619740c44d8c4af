// Package migrations embeds and applies the warehouse schema
package migrations

import (
	"context"
	"database/sql"
	"embed"

	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql bridge for the migrate driver
)

//go:embed *.sql
var files embed.FS

// Run executes all pending migrations against db
// when apply is false it only reports the current version
func Run(db *sql.DB, apply bool) error {
	log := logger.Named("migrations")

	src, err := iofs.New(files, ".")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create migration source")
	}
	drv, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create migrate instance")
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return perr.Wrap(err, perr.ErrorCodeDB, "read migration version")
	}

	if dirty {
		// an interrupted run leaves the version flagged; force back to it and retry
		log.Warn().Uint("version", version).Msg("dirty migration state, recovering")
		if err := m.Force(int(version)); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "recover dirty state at version %d", version)
		}
	}

	if !apply {
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("auto-migrate disabled")
		return nil
	}

	log.Info().Uint("version", version).Msg("applying migrations")
	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Info().Uint("version", version).Msg("schema up to date")
			return nil
		}
		return perr.Wrap(err, perr.ErrorCodeDB, "apply migrations")
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "read updated migration version")
	}
	log.Info().Uint("from", version).Uint("to", newVersion).Msg("migrations applied")
	return nil
}

// Apply opens a short-lived database/sql connection for url and runs everything
func Apply(ctx context.Context, url string) error {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "open migration connection")
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "ping before migrations")
	}
	return Run(db, true)
}
