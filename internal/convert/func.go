package convert

import (
	"fmt"
	"log/slog"
	"reflect"
)

// FuncOption configures a converter built by Func.
type FuncOption func(*funcConfig)

type funcConfig struct {
	logger  *slog.Logger
	dbTypes []string
}

// WithLogger sets the logger that receives conversion failures. The default
// is slog.Default().
func WithLogger(l *slog.Logger) FuncOption {
	return func(c *funcConfig) {
		c.logger = l
	}
}

// ForDatabaseTypes restricts the converter to columns whose database type
// name is one of names.
func ForDatabaseTypes(names ...string) FuncOption {
	return func(c *funcConfig) {
		c.dbTypes = append(c.dbTypes, names...)
	}
}

// Func adapts a fallible conversion function to a Converter from From to
// To. When fn returns an error the failure is logged at warning level and the
// converter yields nil.
func Func[From, To any](fn func(raw From, cur Cursor) (To, error), opts ...FuncOption) Converter {
	cfg := funcConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &funcConverter[From, To]{fn: fn, logger: cfg.logger, dbTypes: cfg.dbTypes}
}

type funcConverter[From, To any] struct {
	fn      func(From, Cursor) (To, error)
	logger  *slog.Logger
	dbTypes []string
}

func (c *funcConverter[From, To]) SourceType() reflect.Type {
	return reflect.TypeOf((*From)(nil)).Elem()
}

func (c *funcConverter[From, To]) TargetType() reflect.Type {
	return reflect.TypeOf((*To)(nil)).Elem()
}

func (c *funcConverter[From, To]) DatabaseTypes() []string {
	return c.dbTypes
}

func (c *funcConverter[From, To]) Convert(raw any, cur Cursor) any {
	v, ok := raw.(From)
	if !ok {
		c.warn(cur, fmt.Errorf("got %T, want %s", raw, c.SourceType()))
		return nil
	}
	out, err := c.fn(v, cur)
	if err != nil {
		c.warn(cur, err)
		return nil
	}
	return out
}

func (c *funcConverter[From, To]) warn(cur Cursor, err error) {
	attrs := []any{"type", c.SourceType().String(), "target", c.TargetType().String(), "error", err}
	if cur != nil {
		attrs = append(attrs,
			"column", cur.ColumnName(),
			"index", cur.ColumnIndex(),
			"db_type", cur.DatabaseTypeName())
	}
	c.logger.Warn("custom type conversion failed", attrs...)
}
