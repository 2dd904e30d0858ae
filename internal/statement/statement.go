// Package statement accumulates generated SQL text and bound parameter
// values into an executable, parameterized statement.
//
// A Builder hands out one `?` marker per parameter value. Build verifies
// that the finished text carries exactly as many markers as there are
// values before the statement can reach a driver:
//
//	var b statement.Builder
//	b.WriteString(`SELECT * FROM "people" WHERE "age" BETWEEN `)
//	b.WriteString(b.AddParameterValue(18))
//	b.WriteString(" AND ")
//	b.WriteString(b.AddParameterValue(65))
//	stmt, err := b.Build()
//	// stmt.SQL  == `SELECT * FROM "people" WHERE "age" BETWEEN ? AND ?`
//	// stmt.Args == []any{18, 65}
//
// Builders are single-use and not safe for concurrent use; every generated
// query owns its own.
package statement

import (
	"strconv"
	"strings"

	"github.com/roach88/sqlcontainer/internal/sqlerr"
)

// Placeholder is the parameter marker emitted into generated text.
const Placeholder = "?"

// Statement is SQL text plus the values bound to its placeholders, in
// left-to-right order.
type Statement struct {
	SQL  string
	Args []any
}

// String returns the SQL text.
func (s Statement) String() string {
	return s.SQL
}

// Placeholders returns the number of `?` markers in the text, ignoring
// quoted identifiers and string literals.
func (s Statement) Placeholders() int {
	return countPlaceholders(s.SQL)
}

// Style selects how placeholders are spelled for a driver.
type Style int

const (
	// StyleQuestion keeps `?` markers (MySQL, SQLite, JDBC).
	StyleQuestion Style = iota
	// StyleDollar numbers markers `$1`, `$2`, ... (lib/pq).
	StyleDollar
)

// Rebind returns a copy of s with placeholders spelled in the given style.
// Args are shared with s.
func (s Statement) Rebind(style Style) Statement {
	if style == StyleQuestion {
		return s
	}
	var out strings.Builder
	out.Grow(len(s.SQL) + 2*len(s.Args))
	n, start := 0, 0
	scan(s.SQL, func(i int) {
		n++
		out.WriteString(s.SQL[start:i])
		out.WriteByte('$')
		out.WriteString(strconv.Itoa(n))
		start = i + 1
	})
	out.WriteString(s.SQL[start:])
	return Statement{SQL: out.String(), Args: s.Args}
}

// Builder accumulates SQL fragments and parameter values in emission order.
// The zero value is ready to use.
type Builder struct {
	text strings.Builder
	args []any
}

// WriteString appends a text fragment.
func (b *Builder) WriteString(s string) {
	b.text.WriteString(s)
}

// AddParameterValue appends v to the parameter list and returns the marker
// the caller must splice into the text at the value's position.
func (b *Builder) AddParameterValue(v any) string {
	b.args = append(b.args, v)
	return Placeholder
}

// Len returns the number of parameter values added so far.
func (b *Builder) Len() int {
	return len(b.args)
}

// Text returns the text accumulated so far.
func (b *Builder) Text() string {
	return b.text.String()
}

// Build finalizes the statement.
//
// A placeholder count that differs from the parameter count means a
// fragment was dropped or a value was bound twice; the statement is
// rejected with a PLACEHOLDER_MISMATCH error rather than handed to a driver.
func (b *Builder) Build() (Statement, error) {
	sql := b.text.String()
	if n := countPlaceholders(sql); n != len(b.args) {
		return Statement{}, sqlerr.NewPlaceholderMismatch(n, len(b.args))
	}
	var args []any
	if len(b.args) > 0 {
		args = make([]any, len(b.args))
		copy(args, b.args)
	}
	return Statement{SQL: sql, Args: args}, nil
}

// MustBuild is like Build but panics on a mismatch. Intended for tests and
// statically known statements.
func (b *Builder) MustBuild() Statement {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func countPlaceholders(sql string) int {
	n := 0
	scan(sql, func(int) { n++ })
	return n
}

// scan calls fn with the byte offset of every `?` outside quoted regions.
// Recognized regions: '...' and "..." (doubled delimiter escapes), `...`
// and [...].
func scan(sql string, fn func(i int)) {
	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; c {
		case '?':
			fn(i)
		case '\'', '"', '`':
			i = skipQuoted(sql, i, c)
		case '[':
			i = skipQuoted(sql, i, ']')
		}
	}
}

// skipQuoted returns the index of the closing delimiter of the region that
// opens at start. An unterminated region runs to the end of the text.
func skipQuoted(sql string, start int, closing byte) int {
	for j := start + 1; j < len(sql); j++ {
		if sql[j] != closing {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == closing {
			j++ // doubled delimiter
			continue
		}
		return j
	}
	return len(sql) - 1
}
