// Package convert normalizes raw values returned by database drivers before
// they reach callers.
//
// A Converter is registered for the Go type a driver hands back ([]byte,
// time.Time, ...), optionally narrowed to database type names such as
// "_TEXT" or "UUID", and declares the type it produces. During row
// materialization each non-key value is looked up by its runtime type and
// column type and, when a converter exists, replaced by the converter's
// result. Conversion is one-way: nothing here turns application
// values back into driver values.
//
// Converters see the current column through a read-only Cursor. They may
// issue follow-up queries on Conn but cannot move or close the row cursor.
// A converter that fails logs a warning and yields nil; a failed
// conversion never aborts the surrounding query.
package convert

import (
	"context"
	"database/sql"
	"reflect"
	"strings"
	"sync"

	"github.com/roach88/sqlcontainer/internal/dialect"
)

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx a converter may
// use for follow-up lookups.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Cursor is a read-only view of the column being converted. It is valid
// only for the duration of one Convert call.
type Cursor interface {
	Context() context.Context
	ColumnIndex() int
	ColumnName() string
	// DatabaseTypeName is the driver's type name, e.g. "_TEXT" or "VARCHAR".
	DatabaseTypeName() string
	Dialect() dialect.Dialect
	Conn() Querier
}

// Converter turns a raw driver value of SourceType into a value of
// TargetType.
type Converter interface {
	SourceType() reflect.Type
	TargetType() reflect.Type
	Convert(raw any, cur Cursor) any
}

// DatabaseTyped is implemented by converters that apply only to columns of
// the listed database type names. Names compare case-insensitively.
type DatabaseTyped interface {
	DatabaseTypes() []string
}

type key struct {
	source reflect.Type
	dbType string
}

// Registry maps runtime types, optionally narrowed by database type name, to
// converters. Registration happens during setup; lookups may run
// concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]Converter
}

// NewRegistry returns a registry holding cs. A later converter for the same
// key replaces an earlier one.
func NewRegistry(cs ...Converter) *Registry {
	r := &Registry{entries: make(map[key]Converter, len(cs))}
	for _, c := range cs {
		r.add(c)
	}
	return r
}

// Register adds c, replacing any converter for the same key.
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[key]Converter)
	}
	r.add(c)
}

func (r *Registry) add(c Converter) {
	typed, ok := c.(DatabaseTyped)
	if !ok || len(typed.DatabaseTypes()) == 0 {
		r.entries[key{source: c.SourceType()}] = c
		return
	}
	for _, name := range typed.DatabaseTypes() {
		r.entries[key{source: c.SourceType(), dbType: strings.ToUpper(name)}] = c
	}
}

// Lookup returns the converter registered for t without a database type.
func (r *Registry) Lookup(t reflect.Type) (Converter, bool) {
	return r.LookupColumn(t, "")
}

// LookupColumn returns the converter for t on a column of database type
// dbType, falling back to the one registered for t alone.
func (r *Registry) LookupColumn(t reflect.Type, dbType string) (Converter, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if dbType != "" {
		if c, ok := r.entries[key{source: t, dbType: strings.ToUpper(dbType)}]; ok {
			return c, true
		}
	}
	c, ok := r.entries[key{source: t}]
	return c, ok
}

// Len returns the number of registered entries. A database-typed converter
// counts once per type name.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Apply converts raw with the converter registered for its runtime type and
// the cursor's database type. nil and values without a converter pass
// through unchanged.
func (r *Registry) Apply(raw any, cur Cursor) any {
	if raw == nil {
		return nil
	}
	var dbType string
	if cur != nil {
		dbType = cur.DatabaseTypeName()
	}
	c, ok := r.LookupColumn(reflect.TypeOf(raw), dbType)
	if !ok {
		return raw
	}
	return c.Convert(raw, cur)
}
