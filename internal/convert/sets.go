package convert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/roach88/sqlcontainer/internal/dialect"
)

// Postgres returns converters for values lib/pq delivers as raw bytes:
// text and integer arrays become []string and []int64, UUID becomes
// uuid.UUID. Bytes of other column types pass through.
func Postgres(opts ...FuncOption) []Converter {
	return []Converter{
		Func(func(raw []byte, _ Cursor) ([]string, error) {
			var arr pq.StringArray
			if err := arr.Scan(raw); err != nil {
				return nil, fmt.Errorf("scan text array: %w", err)
			}
			return []string(arr), nil
		}, withTypes(opts, "_TEXT", "_VARCHAR", "_BPCHAR")...),
		Func(func(raw []byte, _ Cursor) ([]int64, error) {
			var arr pq.Int64Array
			if err := arr.Scan(raw); err != nil {
				return nil, fmt.Errorf("scan integer array: %w", err)
			}
			return []int64(arr), nil
		}, withTypes(opts, "_INT2", "_INT4", "_INT8")...),
		Func(func(raw []byte, _ Cursor) (uuid.UUID, error) {
			id, err := uuid.ParseBytes(raw)
			if err != nil {
				return uuid.Nil, fmt.Errorf("parse uuid: %w", err)
			}
			return id, nil
		}, withTypes(opts, "UUID")...),
	}
}

// mysqlText lists the column types go-sql-driver/mysql returns as []byte
// that hold character data.
var mysqlText = []string{
	"CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "ENUM", "SET", "JSON",
}

// MySQL returns converters that turn character columns delivered as []byte
// into strings.
func MySQL(opts ...FuncOption) []Converter {
	return []Converter{
		Func(func(raw []byte, _ Cursor) (string, error) {
			return string(raw), nil
		}, withTypes(opts, mysqlText...)...),
	}
}

// withTypes returns a copy of opts restricted to the given database types.
func withTypes(opts []FuncOption, names ...string) []FuncOption {
	out := make([]FuncOption, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, ForDatabaseTypes(names...))
}

// UTCTimes returns a converter that normalizes time.Time values to UTC.
func UTCTimes(opts ...FuncOption) []Converter {
	return []Converter{
		Func(func(raw time.Time, _ Cursor) (time.Time, error) {
			return raw.UTC(), nil
		}, opts...),
	}
}

// ForDialect returns a registry with the built-in converters suited to d.
func ForDialect(d dialect.Dialect, opts ...FuncOption) *Registry {
	cs := UTCTimes(opts...)
	switch d {
	case dialect.PostgreSQL:
		cs = append(cs, Postgres(opts...)...)
	case dialect.MySQL, dialect.MariaDB:
		cs = append(cs, MySQL(opts...)...)
	}
	return NewRegistry(cs...)
}
