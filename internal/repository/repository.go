package repository

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	// ErrConflict means a row changed between the caller's read and its write.
	ErrConflict = errors.New("concurrent update")
)

const uniqueViolation = "23505"

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// Ping reports whether the database is reachable.
func (r *Repos) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// translate maps driver errors onto the package sentinels and adds context.
func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Wrapf(errors.Wrap(ErrDuplicate, pgErr.ConstraintName), format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

// inTx runs fn inside a transaction and commits when fn returns nil.
func (r *Repos) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}
