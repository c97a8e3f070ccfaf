package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

func newMigrate(dbURL string) (*migrate.Migrate, error) {
	dialect, _, err := parseURL(dbURL)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("Error reading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("Error reading migrations: %w", err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate, err error) error {
	srcErr, dbErr := m.Close()
	return errors.Join(err, srcErr, dbErr)
}

func MigrateUp(dbURL string) error {
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		err = fmt.Errorf("While migrating up: %w", err)
	} else {
		err = nil
	}
	return closeMigrate(m, err)
}
func MigrateDown(dbURL string) error {
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	err = m.Down()
	if err != nil && err != migrate.ErrNoChange {
		err = fmt.Errorf("While migrating down: %w", err)
	} else {
		err = nil
	}
	return closeMigrate(m, err)
}
func Drop(dbURL string) error {
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	err = m.Drop()
	if err != nil && err != migrate.ErrNoChange {
		err = fmt.Errorf("While dropping: %w", err)
	} else {
		err = nil
	}
	return closeMigrate(m, err)
}
