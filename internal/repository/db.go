package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"

	"github.com/Yassen717/HabitFlow/pkg/cleanup"
)

// Postgres error codes the repositories translate into domain errors
const (
	codeUniqueViolation = "23505"
	codeFKViolation     = "23503"
)

// Connect opens the pool shared by all repositories and registers its
// closing as a cleanup job.
func Connect(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("creating pgxpool error: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database error: %w", err)
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

// Migrate applies goose migrations from dir.
func Migrate(connString, dir string) error {
	return withMigrationsDB(connString, func(db *sql.DB) error {
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("applying migrations error: %w", err)
		}
		return nil
	})
}

// MigrationStatus logs the applied state of every migration in dir.
func MigrationStatus(connString, dir string) error {
	return withMigrationsDB(connString, func(db *sql.DB) error {
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("reading migrations status error: %w", err)
		}
		return nil
	})
}

func withMigrationsDB(connString string, f func(db *sql.DB) error) error {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return fmt.Errorf("opening migrations connection error: %w", err)
	}
	defer db.Close()
	if err = goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect error: %w", err)
	}
	return f(db)
}

// pgCode returns the Postgres error code and constraint name of err, if any.
func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
