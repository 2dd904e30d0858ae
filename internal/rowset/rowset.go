// Package rowset executes generated statements and materializes their
// result rows, running custom type converters over every non-key value.
package rowset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/sqlcontainer/internal/convert"
	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/statement"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options control materialization.
type Options struct {
	// Dialect is reported to converters through the cursor.
	Dialect dialect.Dialect

	// Converters are applied to non-key values. nil disables conversion.
	Converters *convert.Registry

	// KeyColumns are returned exactly as the driver produced them.
	KeyColumns []string
}

// Row is one result row. Values are in column order.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Materialize runs stmt on q and returns every row.
//
// All rows are scanned and the result set is closed before any converter
// runs, so converters can issue follow-up queries on q even when its pool
// holds a single connection.
func Materialize(ctx context.Context, q Querier, stmt statement.Statement, opts Options) ([]Row, error) {
	cols, dbTypes, out, err := scanAll(ctx, q, stmt)
	if err != nil {
		return nil, err
	}
	if opts.Converters == nil {
		return out, nil
	}

	keys := make(map[string]bool, len(opts.KeyColumns))
	for _, k := range opts.KeyColumns {
		keys[k] = true
	}
	for _, row := range out {
		for i := range row.Values {
			if keys[cols[i]] {
				continue
			}
			cur := &cursor{ctx: ctx, index: i, name: cols[i], dbType: dbTypes[i], dialect: opts.Dialect, conn: q}
			row.Values[i] = opts.Converters.Apply(row.Values[i], cur)
		}
	}
	return out, nil
}

// scanAll reads the raw driver values of every row and closes the result set.
func scanAll(ctx context.Context, q Querier, stmt statement.Statement) ([]string, []string, []Row, error) {
	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("columns: %w", err)
	}
	dbTypes := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			dbTypes[i] = ct.DatabaseTypeName()
		}
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		out = append(out, Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, nil, nil, fmt.Errorf("close rows: %w", err)
	}
	return cols, dbTypes, out, nil
}

// cursor exposes one column of the current row to a converter.
type cursor struct {
	ctx     context.Context
	index   int
	name    string
	dbType  string
	dialect dialect.Dialect
	conn    Querier
}

func (c *cursor) Context() context.Context { return c.ctx }
func (c *cursor) ColumnIndex() int         { return c.index }
func (c *cursor) ColumnName() string       { return c.name }
func (c *cursor) DatabaseTypeName() string { return c.dbType }
func (c *cursor) Dialect() dialect.Dialect { return c.dialect }
func (c *cursor) Conn() convert.Querier    { return c.conn }
