package filter

// Predicate is a node of a filter tree.
//
// The interface is deliberately open: a new predicate variant only needs a
// translator registered for it (see Registry). Built-in variants:
//   - Equal: column = value
//   - Compare: column <op> value
//   - Like: column LIKE pattern, optionally case-insensitive
//   - SimpleString: substring or prefix match on a string column
//   - IsNull: column IS NULL
//   - Between: column BETWEEN start AND end
//   - In: column IN (values...)
//   - And, Or, Not: structural composition
type Predicate interface {
	// Columns returns the columns the predicate references, in
	// left-to-right order. Composite predicates return their children's
	// columns.
	Columns() []string
}

// Equal matches rows whose column equals Value. A nil Value renders as
// IS NULL, since `= NULL` never matches.
type Equal struct {
	Column string
	Value  any
}

func (p Equal) Columns() []string { return []string{p.Column} }

// Operator is a comparison operator for Compare.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
)

// Valid reports whether op is one of the supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
		return true
	}
	return false
}

// Compare matches rows where `Column Op Value` holds.
type Compare struct {
	Column string
	Op     Operator
	Value  any
}

func (p Compare) Columns() []string { return []string{p.Column} }

// Like matches rows whose column matches a LIKE pattern. When CaseSensitive
// is false both sides are upper-cased.
type Like struct {
	Column        string
	Pattern       string
	CaseSensitive bool
}

func (p Like) Columns() []string { return []string{p.Column} }

// SimpleString matches rows whose column contains Value, or starts with it
// when OnlyMatchPrefix is set.
type SimpleString struct {
	Column          string
	Value           string
	IgnoreCase      bool
	OnlyMatchPrefix bool
}

func (p SimpleString) Columns() []string { return []string{p.Column} }

// Like returns the equivalent Like predicate.
func (p SimpleString) Like() Like {
	pattern := "%" + p.Value + "%"
	if p.OnlyMatchPrefix {
		pattern = p.Value + "%"
	}
	return Like{Column: p.Column, Pattern: pattern, CaseSensitive: !p.IgnoreCase}
}

// IsNull matches rows whose column is NULL. Wrap in Not for IS NOT NULL.
type IsNull struct {
	Column string
}

func (p IsNull) Columns() []string { return []string{p.Column} }

// Between matches rows whose column lies in [Start, End].
type Between struct {
	Column string
	Start  any
	End    any
}

func (p Between) Columns() []string { return []string{p.Column} }

// In matches rows whose column equals one of Values. An empty In matches
// nothing.
type In struct {
	Column string
	Values []any
}

func (p In) Columns() []string { return []string{p.Column} }

// And matches rows satisfying every child. An empty And matches everything.
type And struct {
	Predicates []Predicate
}

func (p And) Columns() []string { return childColumns(p.Predicates) }

// Or matches rows satisfying at least one child. An empty Or matches
// nothing.
type Or struct {
	Predicates []Predicate
}

func (p Or) Columns() []string { return childColumns(p.Predicates) }

// Not negates its child.
type Not struct {
	Predicate Predicate
}

func (p Not) Columns() []string {
	if p.Predicate == nil {
		return nil
	}
	return p.Predicate.Columns()
}

// AllOf is shorthand for And{Predicates: ps}.
func AllOf(ps ...Predicate) And { return And{Predicates: ps} }

// AnyOf is shorthand for Or{Predicates: ps}.
func AnyOf(ps ...Predicate) Or { return Or{Predicates: ps} }

// NotNull is shorthand for Not{IsNull{column}}.
func NotNull(column string) Not { return Not{Predicate: IsNull{Column: column}} }

func childColumns(ps []Predicate) []string {
	var cols []string
	for _, p := range ps {
		if p != nil {
			cols = append(cols, p.Columns()...)
		}
	}
	return cols
}
