package query

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlcontainer/internal/filter"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns the SQL keyword for d.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts "asc", "desc" and the empty string (ascending),
// ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return Asc, fmt.Errorf("unknown sort direction %q", s)
}

// SortKey orders results by one column.
type SortKey struct {
	Column    string
	Direction Direction
}

// Page is a paging window. A zero Length means no paging clause is emitted.
type Page struct {
	Offset int
	Length int
}

// Descriptor is the dialect-independent description of a SELECT.
type Descriptor struct {
	Table   string           // table name, quoted by the generator
	Columns []string         // projection in order; empty means *
	Filter  filter.Predicate // WHERE tree (nil = no filter)
	OrderBy []SortKey        // applied in order
	Page    *Page            // nil = every row
}

// Paged reports whether the descriptor asks for a paging clause.
func (d Descriptor) Paged() bool {
	return d.Page != nil && d.Page.Length > 0
}

// Unpaged returns a copy of d without its paging window.
func (d Descriptor) Unpaged() Descriptor {
	d.Page = nil
	return d
}

// ColumnValue pairs a column with the value written to it by INSERT or
// UPDATE. Statements keep slice order so parameter order is deterministic.
type ColumnValue struct {
	Column string
	Value  any
}

// Values builds column values from alternating column/value arguments.
// It panics on an odd count or a non-string column.
func Values(pairs ...any) []ColumnValue {
	if len(pairs)%2 != 0 {
		panic("query.Values: odd number of arguments")
	}
	out := make([]ColumnValue, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("query.Values: column at position %d is %T, not string", i, pairs[i]))
		}
		out = append(out, ColumnValue{Column: col, Value: pairs[i+1]})
	}
	return out
}
