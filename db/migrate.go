package db

import (
	"embed"
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Direction selects which way RunMigrations moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies (Up) or reverts (Down) every embedded migration
// against the database described by cfg. Having nothing to do is not an error.
func RunMigrations(cfg *config.PoolConfig, dir Direction) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("Warning: error closing migrator: source=%v database=%v", srcErr, dbErr)
		}
	}()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return apperror.NewBadRequestError("unknown migration direction: "+string(dir), nil)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations "+string(dir), err)
	}

	version, dirty, verr := m.Version()
	switch {
	case errors.Is(verr, migrate.ErrNilVersion):
		log.Printf("Migrations %s complete: no version applied", dir)
	case verr != nil:
		log.Printf("Warning: could not read migration version: %v", verr)
	default:
		log.Printf("Migrations %s complete: version=%d dirty=%t", dir, version, dirty)
	}
	return nil
}
