package postgres

import (
	"embed"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// ErrDuplicate indicates a unique constraint violation.
var ErrDuplicate = errors.New("duplicate row")

// Repository bundles access to all platform tables over a shared pool.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a Repository over an established connection pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
