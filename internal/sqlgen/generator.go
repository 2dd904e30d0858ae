package sqlgen

import (
	"log/slog"
	"strings"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/filter"
	"github.com/roach88/sqlcontainer/internal/query"
	"github.com/roach88/sqlcontainer/internal/sqlerr"
	"github.com/roach88/sqlcontainer/internal/statement"
)

// Generator produces SQL for one dialect.
type Generator struct {
	dialect  dialect.Dialect
	caps     Capabilities
	registry *filter.Registry
	logger   *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithQuotes overrides the identifier quote characters.
func WithQuotes(start, end string) Option {
	return func(g *Generator) {
		g.caps.QuoteStart = start
		g.caps.QuoteEnd = end
	}
}

// WithPaginator overrides the paging strategy.
func WithPaginator(p Paginator) Option {
	return func(g *Generator) {
		g.caps.Paginate = p
	}
}

// WithCapabilities replaces the whole capability set.
func WithCapabilities(c Capabilities) Option {
	return func(g *Generator) {
		g.caps = c
	}
}

// WithRegistry sets the filter translator registry. The default is
// filter.DefaultRegistry().
func WithRegistry(r *filter.Registry) Option {
	return func(g *Generator) {
		g.registry = r
	}
}

// WithLogger sets the logger used for resolution warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// New returns a generator for d with its built-in profile, then applies opts.
func New(d dialect.Dialect, opts ...Option) *Generator {
	g := &Generator{
		dialect:  d,
		caps:     Profile(d),
		registry: filter.DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ForDialect returns a generator for d with its built-in profile.
func ForDialect(d dialect.Dialect) *Generator {
	return New(d)
}

// ForDriver resolves driverID and returns the matching generator.
//
// An empty identifier selects the Default generator. Any other identifier
// that is not in the dialect table fails with an UNKNOWN_DIALECT error.
func ForDriver(driverID string, opts ...Option) (*Generator, error) {
	if driverID == "" {
		return New(dialect.Default, opts...), nil
	}
	d, ok := dialect.Resolve(driverID)
	if !ok {
		return nil, sqlerr.NewUnknownDialect(driverID)
	}
	return New(d, opts...), nil
}

// ForDriverBestEffort is like ForDriver but never fails: an unknown
// identifier is logged at warning level and the Default generator is
// returned. Its SQL may be rejected by the actual database.
func ForDriverBestEffort(driverID string, opts ...Option) *Generator {
	g, err := ForDriver(driverID, opts...)
	if err == nil {
		return g
	}
	g = New(dialect.Default, opts...)
	g.logger.Warn("unknown JDBC driver identifier, falling back to default SQL generator",
		"driver", driverID,
		"error", err)
	return g
}

// Dialect returns the dialect the generator was built for.
func (g *Generator) Dialect() dialect.Dialect {
	return g.dialect
}

// Capabilities returns the generator's quoting and paging behavior.
func (g *Generator) Capabilities() Capabilities {
	return g.caps
}

// Quote returns ident in the dialect's identifier quotes.
func (g *Generator) Quote(ident string) string {
	return g.caps.Quote(ident)
}

// GenerateSelect renders the SELECT described by d, including its paging
// window when the page length is positive.
func (g *Generator) GenerateSelect(d query.Descriptor) (statement.Statement, error) {
	if err := query.Validate(d); err != nil {
		return statement.Statement{}, err
	}
	var b statement.Builder
	sel, err := g.selectClauses(&b, d)
	if err != nil {
		return statement.Statement{}, err
	}
	if d.Paged() {
		b.WriteString(g.caps.paginator()(sel, *d.Page))
	} else {
		b.WriteString(sel.String())
	}
	return g.build(&b, "select")
}

// GenerateCount renders a query returning the number of rows d matches,
// ignoring its sort keys and paging window. The count column is named
// "rowcount".
func (g *Generator) GenerateCount(d query.Descriptor) (statement.Statement, error) {
	if err := query.Validate(d); err != nil {
		return statement.Statement{}, err
	}
	d = d.Unpaged()
	d.OrderBy = nil
	d.Columns = nil

	var b statement.Builder
	sel, err := g.selectClauses(&b, d)
	if err != nil {
		return statement.Statement{}, err
	}
	b.WriteString("SELECT COUNT(*) AS ")
	b.WriteString(g.Quote("rowcount"))
	b.WriteString(" FROM (")
	b.WriteString(sel.String())
	b.WriteString(") x")
	return g.build(&b, "count")
}

// GenerateInsert renders `INSERT INTO t (c1, c2) VALUES (?, ?)` with values
// bound in slice order.
func (g *Generator) GenerateInsert(table string, values []query.ColumnValue) (statement.Statement, error) {
	if err := query.ValidateValues(table, values); err != nil {
		return statement.Statement{}, err
	}
	cols := make([]string, len(values))
	markers := make([]string, len(values))

	var b statement.Builder
	for i, cv := range values {
		cols[i] = g.Quote(cv.Column)
		markers[i] = b.AddParameterValue(cv.Value)
	}
	b.WriteString("INSERT INTO ")
	b.WriteString(g.Quote(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(markers, ", "))
	b.WriteString(")")
	return g.build(&b, "insert")
}

// GenerateUpdate renders `UPDATE t SET c1 = ?, ... WHERE <key>`. The SET
// values are bound before the key filter's operands.
//
// A nil key filter is rejected: it would update every row.
func (g *Generator) GenerateUpdate(table string, values []query.ColumnValue, key filter.Predicate) (statement.Statement, error) {
	if err := query.ValidateValues(table, values); err != nil {
		return statement.Statement{}, err
	}
	if err := validateKey("UPDATE", key); err != nil {
		return statement.Statement{}, err
	}

	var b statement.Builder
	sets := make([]string, len(values))
	for i, cv := range values {
		sets[i] = g.Quote(cv.Column) + " = " + b.AddParameterValue(cv.Value)
	}
	where, err := g.where(&b, key)
	if err != nil {
		return statement.Statement{}, err
	}
	b.WriteString("UPDATE ")
	b.WriteString(g.Quote(table))
	b.WriteString(" SET ")
	b.WriteString(strings.Join(sets, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(where)
	return g.build(&b, "update")
}

// GenerateDelete renders `DELETE FROM t WHERE <key>`.
//
// A nil key filter is rejected: it would delete every row.
func (g *Generator) GenerateDelete(table string, key filter.Predicate) (statement.Statement, error) {
	if strings.TrimSpace(table) == "" {
		return statement.Statement{}, sqlerr.New(sqlerr.CodeInvalidDescriptor, "invalid delete: empty table name")
	}
	if err := validateKey("DELETE", key); err != nil {
		return statement.Statement{}, err
	}

	var b statement.Builder
	where, err := g.where(&b, key)
	if err != nil {
		return statement.Statement{}, err
	}
	b.WriteString("DELETE FROM ")
	b.WriteString(g.Quote(table))
	b.WriteString(" WHERE ")
	b.WriteString(where)
	return g.build(&b, "delete")
}

// selectClauses renders the clauses of d, binding filter operands into b.
func (g *Generator) selectClauses(b *statement.Builder, d query.Descriptor) (Select, error) {
	sel := Select{
		Columns: "*",
		From:    g.Quote(d.Table),
		Quote:   g.Quote,
	}
	if len(d.Columns) > 0 {
		cols := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			cols[i] = g.Quote(c)
		}
		sel.Columns = strings.Join(cols, ", ")
	}
	if d.Filter != nil {
		where, err := g.where(b, d.Filter)
		if err != nil {
			return Select{}, err
		}
		sel.Where = where
	}
	if len(d.OrderBy) > 0 {
		keys := make([]string, len(d.OrderBy))
		for i, k := range d.OrderBy {
			keys[i] = g.Quote(k.Column) + " " + k.Direction.String()
		}
		sel.OrderBy = strings.Join(keys, ", ")
	}
	return sel, nil
}

func (g *Generator) where(b *statement.Builder, p filter.Predicate) (string, error) {
	return filter.Render(p, b, g.Quote, g.registry)
}

func (g *Generator) build(b *statement.Builder, kind string) (statement.Statement, error) {
	stmt, err := b.Build()
	if err != nil {
		return statement.Statement{}, err
	}
	g.logger.Debug("generated statement",
		"kind", kind,
		"dialect", g.dialect.String(),
		"sql", stmt.SQL,
		"params", len(stmt.Args))
	return stmt, nil
}

func validateKey(op string, key filter.Predicate) error {
	if key == nil {
		return sqlerr.New(sqlerr.CodeInvalidDescriptor, "invalid %s: key filter is required", strings.ToLower(op))
	}
	return query.ValidateFilter(key)
}
