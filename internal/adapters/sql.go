package adapters

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/mattn/go-sqlite3"
	"gitlab.com/ranfdev/mascotas/internal/db"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type base struct {
	sdb  *db.SharedDB
	stmt sq.StatementBuilderType
}

func newBase(sdb *db.SharedDB) base {
	var format sq.PlaceholderFormat = sq.Question
	if sdb.Dialect == db.DialectPostgres {
		format = sq.Dollar
	}
	return base{
		sdb:  sdb,
		stmt: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

func (b base) execTx(ctx context.Context, txFunc func(context.Context, DBTX) error) error {
	tx, err := b.sdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = txFunc(ctx, tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// insert runs the insert and returns the id of the new row
func (b base) insert(ctx context.Context, tx DBTX, ins sq.InsertBuilder) (int, error) {
	if b.sdb.Dialect == db.DialectPostgres {
		sql, args, _ := ins.Suffix("RETURNING id").ToSql()
		id := 0
		err := tx.QueryRowContext(ctx, sql, args...).Scan(&id)
		return id, err
	}

	sql, args, _ := ins.ToSql()
	res, err := tx.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// lockSuffix returns the clause locking the selected rows, where supported
func (b base) lockSuffix() string {
	if b.sdb.Dialect == db.DialectPostgres {
		return "FOR UPDATE"
	}
	return ""
}

func isConstraintViolation(err error, pgCode string, liteCode sqlite3.ErrNoExtended) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCode
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == liteCode
	}
	return false
}

func isUniqueViolation(err error) bool {
	return isConstraintViolation(err, "23505", sqlite3.ErrConstraintUnique)
}

func isForeignKeyViolation(err error) bool {
	return isConstraintViolation(err, "23503", sqlite3.ErrConstraintForeignKey)
}
