// Package migrations holds the schema of the postgres link storage.
// The SQL files are embedded and applied with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Table records the applied schema version of the links table.
const Table = "links_schema_migrations"

//go:embed *.sql
var files embed.FS

// Source returns the embedded migrations as a golang-migrate source.
func Source() (source.Driver, error) {
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return src, nil
}

// Up brings the links schema to the latest version
// and logs the version it ended on.
func Up(db *sql.DB, log logger.Logger) error {
	src, err := Source()
	if err != nil {
		return err
	}

	target, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: Table})
	if err != nil {
		return fmt.Errorf("prepare links schema: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return fmt.Errorf("prepare links schema: %w", err)
	}

	switch err = m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("links schema is up to date")
	case err != nil:
		return fmt.Errorf("migrate links schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read links schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("links schema version %d is dirty", version)
	}
	log.Infof("links schema at version %d", version)

	return nil
}
