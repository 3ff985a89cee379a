// Package db provides database connectivity for the teeBay API: it opens the
// pgx connection pool, wraps it for the pebble-orm query builder, and runs the
// embedded schema migrations.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marshallshelly/pebble-orm/pkg/builder"
	"github.com/marshallshelly/pebble-orm/pkg/runtime"

	"github.com/teebay/teebay-api/apperror"
	"github.com/teebay/teebay-api/config"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// foreignKeyViolation is the PostgreSQL SQLSTATE for foreign_key_violation.
const foreignKeyViolation = "23503"

// Database bundles the raw pool with the pebble-orm wrappers built on it.
// Repositories use Query; health checks and shutdown use Pool.
type Database struct {
	Pool  *pgxpool.Pool
	Query *builder.DB
}

// Open creates the connection pool described by cfg and verifies it with a
// ping before returning.
func Open(ctx context.Context, cfg *config.PoolConfig) (*Database, error) {
	pool, err := createPgxPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Database{
		Pool:  pool,
		Query: builder.New(runtime.NewDB(pool)),
	}, nil
}

// Close releases every connection in the pool.
func (d *Database) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

func createPgxPool(ctx context.Context, cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database connection string", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", poolConfig.ConnConfig.Database), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", poolConfig.ConnConfig.Database), err)
	}

	return pool, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	return hasCode(err, uniqueViolation, constraint...)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation, optionally restricted to the named constraint.
func IsForeignKeyViolation(err error, constraint ...string) bool {
	return hasCode(err, foreignKeyViolation, constraint...)
}

func hasCode(err error, code string, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}
