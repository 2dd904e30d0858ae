package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlcontainer/internal/convert"
	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/filter"
	"github.com/roach88/sqlcontainer/internal/query"
	"github.com/roach88/sqlcontainer/internal/rowset"
	"github.com/roach88/sqlcontainer/internal/sqlgen"
	"github.com/roach88/sqlcontainer/internal/statement"
)

// Store executes statements for one dialect on one database.
type Store struct {
	db         *sql.DB
	dialect    dialect.Dialect
	gen        *sqlgen.Generator
	converters *convert.Registry
}

// Option customizes a Store.
type Option func(*Store)

// WithGenerator replaces the dialect's built-in generator.
func WithGenerator(g *sqlgen.Generator) Option {
	return func(s *Store) {
		s.gen = g
	}
}

// WithConverters replaces the dialect's built-in converter set. nil
// disables conversion.
func WithConverters(r *convert.Registry) Option {
	return func(s *Store) {
		s.converters = r
	}
}

// Open connects to dsn with the driver for d and verifies the connection.
//
// For the Default dialect dsn is a SQLite path (":memory:" for an in-memory
// database) and the required pragmas are applied.
func Open(ctx context.Context, d dialect.Dialect, dsn string, opts ...Option) (*Store, error) {
	driver := d.DriverName()
	if driver == "" {
		return nil, fmt.Errorf("no database/sql driver for dialect %s", d)
	}
	normalized, err := NormalizeDSN(d, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite only supports one writer at a time, and an in-memory
		// database exists per connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return New(db, d, opts...), nil
}

// New wraps an open database.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *Store {
	s := &Store{
		db:         db,
		dialect:    d,
		gen:        sqlgen.ForDialect(d),
		converters: convert.ForDialect(d),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeDSN rewrites dsn into the form the dialect's driver expects.
func NormalizeDSN(d dialect.Dialect, dsn string) (string, error) {
	switch d {
	case dialect.MySQL, dialect.MariaDB:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case dialect.PostgreSQL:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			conn, err := pq.ParseURL(dsn)
			if err != nil {
				return "", fmt.Errorf("parse postgres url: %w", err)
			}
			return conn, nil
		}
		return dsn, nil
	default:
		if dsn == "" {
			return ":memory:", nil
		}
		return dsn, nil
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's dialect.
func (s *Store) Dialect() dialect.Dialect {
	return s.dialect
}

// Generator returns the generator used by Select, Count and the write
// helpers.
func (s *Store) Generator() *sqlgen.Generator {
	return s.gen
}

// Query executes stmt and materializes the rows. Values in keyColumns are
// returned unconverted.
func (s *Store) Query(ctx context.Context, stmt statement.Statement, keyColumns ...string) ([]rowset.Row, error) {
	return rowset.Materialize(ctx, s.db, s.bind(stmt), rowset.Options{
		Dialect:    s.dialect,
		Converters: s.converters,
		KeyColumns: keyColumns,
	})
}

// Exec executes a statement that returns no rows.
func (s *Store) Exec(ctx context.Context, stmt statement.Statement) (sql.Result, error) {
	stmt = s.bind(stmt)
	res, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// Select generates and runs the SELECT for d.
func (s *Store) Select(ctx context.Context, d query.Descriptor, keyColumns ...string) ([]rowset.Row, error) {
	stmt, err := s.gen.GenerateSelect(d)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, stmt, keyColumns...)
}

// Count returns the number of rows d matches, ignoring paging.
func (s *Store) Count(ctx context.Context, d query.Descriptor) (int64, error) {
	stmt, err := s.gen.GenerateCount(d)
	if err != nil {
		return 0, err
	}
	stmt = s.bind(stmt)
	var n int64
	if err := s.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Insert adds one row and returns the number of rows affected.
func (s *Store) Insert(ctx context.Context, table string, values []query.ColumnValue) (int64, error) {
	stmt, err := s.gen.GenerateInsert(table, values)
	if err != nil {
		return 0, err
	}
	return s.affected(ctx, stmt)
}

// Update sets values on the rows matching key.
func (s *Store) Update(ctx context.Context, table string, values []query.ColumnValue, key filter.Predicate) (int64, error) {
	stmt, err := s.gen.GenerateUpdate(table, values, key)
	if err != nil {
		return 0, err
	}
	return s.affected(ctx, stmt)
}

// Delete removes the rows matching key.
func (s *Store) Delete(ctx context.Context, table string, key filter.Predicate) (int64, error) {
	stmt, err := s.gen.GenerateDelete(table, key)
	if err != nil {
		return 0, err
	}
	return s.affected(ctx, stmt)
}

func (s *Store) affected(ctx context.Context, stmt statement.Statement) (int64, error) {
	res, err := s.Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// bind spells placeholders the way the dialect's driver expects.
func (s *Store) bind(stmt statement.Statement) statement.Statement {
	if s.dialect == dialect.PostgreSQL {
		return stmt.Rebind(statement.StyleDollar)
	}
	return stmt
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	q := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(q).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
