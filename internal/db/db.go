package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

const sqlitePrefix = "sqlite3://"

// SharedDB is the connection pool shared by every repository.
type SharedDB struct {
	*sql.DB
	Dialect Dialect
}

func parseURL(dbURL string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dbURL, sqlitePrefix):
		return DialectSQLite, strings.TrimPrefix(dbURL, sqlitePrefix), nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return DialectPostgres, dbURL, nil
	default:
		return "", "", fmt.Errorf("Unsupported database url: %q", dbURL)
	}
}

func Connect(ctx context.Context, dbURL string) (*SharedDB, error) {
	dialect, dsn, err := parseURL(dbURL)
	if err != nil {
		return nil, err
	}

	driver := "pgx"
	if dialect == DialectSQLite {
		driver = "sqlite3"
		if !strings.Contains(dsn, "_foreign_keys") {
			dsn = addQueryParam(dsn, "_foreign_keys=on")
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to connect to %s: %w", dialect, err)
	}
	return &SharedDB{DB: db, Dialect: dialect}, nil
}

func addQueryParam(dsn string, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}
